package affirm_test

import (
	"testing"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromMap(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"public_api_key":  "abc123",
			"private_api_key": "xyz321",
			"is_sandbox":      true,
		}
	}

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{name: "public key not a string", mutate: func(m map[string]any) { m["public_api_key"] = 123 }, field: "public_api_key"},
		{name: "public key missing", mutate: func(m map[string]any) { delete(m, "public_api_key") }, field: "public_api_key"},
		{name: "private key nil", mutate: func(m map[string]any) { m["private_api_key"] = nil }, field: "private_api_key"},
		{name: "private key empty", mutate: func(m map[string]any) { m["private_api_key"] = "" }, field: "private_api_key"},
		{name: "sandbox not a bool", mutate: func(m map[string]any) { m["is_sandbox"] = "false" }, field: "is_sandbox"},
		{name: "sandbox missing", mutate: func(m map[string]any) { delete(m, "is_sandbox") }, field: "is_sandbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)

			_, err := affirm.ConfigFromMap(m)

			cfgErr, ok := affirm.IsConfigurationError(err)
			require.True(t, ok, "expected ConfigurationError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		cfg, err := affirm.ConfigFromMap(valid())

		require.NoError(t, err)
		assert.Equal(t, affirm.Config{
			PublicAPIKey:  "abc123",
			PrivateAPIKey: "xyz321",
			IsSandbox:     true,
		}, cfg)
	})
}
