package affirm

import (
	"errors"
	"fmt"
)

// ConfigurationError is returned by New and ConfigFromMap when the client
// configuration is missing a field or holds a value of the wrong type.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("affirm: invalid configuration: %s %s", e.Field, e.Reason)
}

// ValidationError is returned before any request is sent when an optional
// parameter does not match the type declared for the operation.
type ValidationError struct {
	Param    string
	Expected Kind
	Actual   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("affirm: optional parameter %q must be %s, got %s", e.Param, e.Expected, e.Actual)
}

// ResponseError covers both a failed round trip (transport error or non-2xx
// status) and a response body that is not a JSON object.
type ResponseError struct {
	StatusCode int
	Message    string
	Body       string

	// Populated when a non-2xx body is an Affirm error envelope.
	Type  string
	Code  string
	Field string

	Err error
}

type errorEnvelope struct {
	StatusCode int    `json:"status_code"`
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field"`
}

func (e *ResponseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("affirm error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("affirm: %s: %v", e.Message, e.Err)
	}
	return "affirm: " + e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

func IsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	ok := errors.As(err, &respErr)
	return respErr, ok
}

func IsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	ok := errors.As(err, &valErr)
	return valErr, ok
}

func IsConfigurationError(err error) (*ConfigurationError, bool) {
	var cfgErr *ConfigurationError
	ok := errors.As(err, &cfgErr)
	return cfgErr, ok
}
