package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Valid(t *testing.T) {
	doc := `{
		"port": 8080,
		"llm": {"provider": "gemini", "models": ["gemini-2.5-pro"]},
		"artifact_store": "minio",
		"minio": {"endpoint": "localhost:9000", "bucket": "resumes"},
		"log": {"level": "debug", "format": "pretty"},
		"extraction": {"confidence_threshold": 40, "min_printable_ratio": 0.25}
	}`
	assert.NoError(t, ValidateConfig([]byte(doc)))
	assert.NoError(t, ValidateConfig([]byte(`{}`)))
}

func TestValidateConfig_Violations(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"unknown provider", `{"llm": {"provider": "openai"}}`, "llm.provider"},
		{"port type", `{"port": "8080"}`, "port"},
		{"ratio range", `{"extraction": {"min_printable_ratio": 2}}`, "extraction.min_printable_ratio"},
		{"empty model list", `{"llm": {"models": []}}`, "llm.models"},
		{"unknown key", `{"api_key": "secret"}`, "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig([]byte(tt.doc))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := ValidateConfig([]byte(`{"port":`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.NotNil(t, errors.Unwrap(err))
}
