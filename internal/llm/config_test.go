package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderPerplexity, config.Provider)
	assert.Equal(t, DefaultPerplexityBaseURL, config.BaseURL)
	assert.Equal(t, []string{
		"sonar-pro",
		"sonar",
		"llama-3.1-sonar-large-128k-online",
		"llama-3.1-sonar-huge-128k-online",
	}, config.ModelList())
}

func TestModelList_ProviderDefaults(t *testing.T) {
	config := &Config{Provider: ProviderGemini}
	assert.Equal(t, DefaultGeminiModels, config.ModelList())

	config.Models = []string{"custom"}
	assert.Equal(t, []string{"custom"}, config.ModelList())
}

func TestWithModels(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModels("a", "b")

	// Original should be unchanged
	assert.Equal(t, "sonar-pro", config.ModelList()[0])
	assert.Equal(t, []string{"a", "b"}, newConfig.ModelList())
	assert.Equal(t, config.BaseURL, newConfig.BaseURL)
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"", ProviderPerplexity, false},
		{"perplexity", ProviderPerplexity, false},
		{" Gemini ", ProviderGemini, false},
		{"anthropic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitModels(t *testing.T) {
	assert.Equal(t, []string{"sonar", "sonar-pro"}, SplitModels(" sonar, ,sonar-pro,"))
	assert.Nil(t, SplitModels(""))
}
