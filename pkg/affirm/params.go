package affirm

import (
	"fmt"
	"net/url"
	"strconv"
)

// Kind is the primitive type an optional parameter must have.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

func (k Kind) matches(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
	}
	return false
}

// Params holds the optional data a caller passes to an operation.
type Params map[string]any

// Schema declares the optional parameters an operation accepts.
type Schema map[string]Kind

var (
	authorizeSchema = Schema{
		"order_id": KindString,
	}
	captureSchema = Schema{
		"order_id":              KindString,
		"shipping_carrier":      KindString,
		"shipping_confirmation": KindString,
	}
	readSchema = Schema{
		"limit":  KindInt,
		"before": KindString,
		"after":  KindString,
	}
	refundSchema = Schema{
		"amount": KindInt,
	}
)

// Validate checks the declared parameters present in params. Keys the schema
// does not declare are ignored here and dropped by Whitelist.
func (s Schema) Validate(params Params) error {
	for name, kind := range s {
		v, ok := params[name]
		if !ok {
			continue
		}
		if !kind.matches(v) {
			return &ValidationError{
				Param:    name,
				Expected: kind,
				Actual:   typeName(v),
			}
		}
	}
	return nil
}

// Whitelist returns the declared parameters present in params. Zero values,
// including the string "0", are dropped unless keepZero is set.
func (s Schema) Whitelist(params Params, keepZero bool) Params {
	out := make(Params, len(s))
	for name := range s {
		v, ok := params[name]
		if !ok {
			continue
		}
		if !keepZero && isZero(v) {
			continue
		}
		out[name] = v
	}
	return out
}

func (p Params) query() url.Values {
	q := make(url.Values, len(p))
	for k, v := range p {
		switch t := v.(type) {
		case string:
			q.Set(k, t)
		default:
			q.Set(k, fmt.Sprint(t))
		}
	}
	return q
}

func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0"
	case int:
		return t == 0
	case int8:
		return t == 0
	case int16:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case uint:
		return t == 0
	case uint8:
		return t == 0
	case uint16:
		return t == 0
	case uint32:
		return t == 0
	case uint64:
		return t == 0
	}
	return false
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	if f, ok := v.(float64); ok {
		return "float64(" + strconv.FormatFloat(f, 'g', -1, 64) + ")"
	}
	return fmt.Sprintf("%T", v)
}
