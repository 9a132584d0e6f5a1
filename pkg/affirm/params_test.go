package affirm_test

import (
	"testing"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	schema := affirm.Schema{
		"limit":  affirm.KindInt,
		"before": affirm.KindString,
	}

	tests := []struct {
		name    string
		params  affirm.Params
		wantErr bool
	}{
		{name: "nil params", params: nil},
		{name: "undeclared key of any type", params: affirm.Params{"other": 1.5}},
		{name: "int", params: affirm.Params{"limit": 10}},
		{name: "int64", params: affirm.Params{"limit": int64(10)}},
		{name: "uint8", params: affirm.Params{"limit": uint8(10)}},
		{name: "string", params: affirm.Params{"before": "evt"}},
		{name: "float for int", params: affirm.Params{"limit": 10.0}, wantErr: true},
		{name: "null for int", params: affirm.Params{"limit": nil}, wantErr: true},
		{name: "int for string", params: affirm.Params{"before": 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.params)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			valErr, ok := affirm.IsValidationError(err)
			require.True(t, ok)
			assert.NotEmpty(t, valErr.Param)
		})
	}
}

func TestSchema_Validate_ErrorMessage(t *testing.T) {
	schema := affirm.Schema{"order_id": affirm.KindString}

	err := schema.Validate(affirm.Params{"order_id": 123.45})

	require.Error(t, err)
	assert.Equal(t, `affirm: optional parameter "order_id" must be string, got float64(123.45)`, err.Error())
}

func TestSchema_Whitelist(t *testing.T) {
	schema := affirm.Schema{
		"amount":   affirm.KindInt,
		"order_id": affirm.KindString,
	}
	params := affirm.Params{
		"amount":   0,
		"order_id": "o1",
		"extra":    "dropped",
	}

	assert.Equal(t, affirm.Params{"order_id": "o1"}, schema.Whitelist(params, false))
	assert.Equal(t, affirm.Params{"amount": 0, "order_id": "o1"}, schema.Whitelist(params, true))
	assert.Equal(t, affirm.Params{}, schema.Whitelist(nil, false))
}

func TestSchema_Whitelist_DropsStringZero(t *testing.T) {
	schema := affirm.Schema{"order_id": affirm.KindString}

	assert.Equal(t, affirm.Params{}, schema.Whitelist(affirm.Params{"order_id": "0"}, false))
	assert.Equal(t, affirm.Params{"order_id": "0"}, schema.Whitelist(affirm.Params{"order_id": "0"}, true))
	assert.Equal(t, affirm.Params{"order_id": "00"}, schema.Whitelist(affirm.Params{"order_id": "00"}, false))
}
