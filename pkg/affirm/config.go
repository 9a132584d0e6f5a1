package affirm

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
)

const (
	LiveURL    = "https://api.affirm.com/api/v2/"
	SandboxURL = "https://sandbox.affirm.com/api/v2/"
)

// Config holds the Affirm credentials and environment.
type Config struct {
	PublicAPIKey  string `validate:"required"`
	PrivateAPIKey string `validate:"required"`
	IsSandbox     bool
}

var configKeys = map[string]string{
	"PublicAPIKey":  "public_api_key",
	"PrivateAPIKey": "private_api_key",
	"IsSandbox":     "is_sandbox",
}

func (c Config) baseURL() string {
	if c.IsSandbox {
		return SandboxURL
	}
	return LiveURL
}

func (c Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ConfigurationError{
			Field:  configKeys[fe.Field()],
			Reason: fmt.Sprintf("failed %q check", fe.Tag()),
		}
	}
	return &ConfigurationError{Field: "config", Reason: err.Error()}
}

// ConfigFromMap builds a Config from an untyped mapping such as a decoded
// JSON or YAML document. Every key must be present with the right type.
func ConfigFromMap(m map[string]any) (Config, error) {
	var cfg Config

	public, err := stringField(m, "public_api_key")
	if err != nil {
		return cfg, err
	}
	private, err := stringField(m, "private_api_key")
	if err != nil {
		return cfg, err
	}

	raw, ok := m["is_sandbox"]
	if !ok {
		return cfg, &ConfigurationError{Field: "is_sandbox", Reason: "is missing"}
	}
	sandbox, ok := raw.(bool)
	if !ok {
		return cfg, &ConfigurationError{Field: "is_sandbox", Reason: "must be bool, got " + typeName(raw)}
	}

	cfg = Config{
		PublicAPIKey:  public,
		PrivateAPIKey: private,
		IsSandbox:     sandbox,
	}
	return cfg, cfg.validate()
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", &ConfigurationError{Field: key, Reason: "is missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ConfigurationError{Field: key, Reason: "must be string, got " + typeName(raw)}
	}
	return s, nil
}
