package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestSplitMessages(t *testing.T) {
	system, parts := splitMessages([]Message{
		{RoleSystem, "rules"},
		{RoleUser, "resume"},
		{RoleSystem, "more rules"},
	})

	assert.Equal(t, "rules\n\nmore rules", system)
	assert.Equal(t, []genai.Part{genai.Text("resume")}, parts)
}

func TestIsModelNotFound(t *testing.T) {
	notFound := fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusNotFound})
	assert.True(t, isModelNotFound(notFound))
	assert.False(t, isModelNotFound(&googleapi.Error{Code: http.StatusForbidden}))
	assert.True(t, isModelNotFound(errors.New("models/foo is not found for API version v1beta")))
	assert.False(t, isModelNotFound(errors.New("deadline exceeded")))
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	require.Error(t, err)

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}},
	}}}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}
