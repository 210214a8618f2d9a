package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"resume-matcher/internal/llm"
)

type fakeModels struct {
	mu     sync.Mutex
	calls  []string
	resp   *genai.GenerateContentResponse
	err    error
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, model)
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerateJoinsParts(t *testing.T) {
	models := &fakeModels{resp: textResponse("```json", `{"title":"Go"}`, "```")}
	c := newClient(models, "", nil)

	got, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"title\":\"Go\"}\n```", got)
	assert.Equal(t, []string{defaultModel}, models.calls)
	require.NotNil(t, models.config.Temperature)
}

func TestGenerateSkipsThoughtParts(t *testing.T) {
	resp := textResponse("{}")
	resp.Candidates[0].Content.Parts = append([]*genai.Part{{Text: "thinking...", Thought: true}}, resp.Candidates[0].Content.Parts...)
	c := newClient(&fakeModels{resp: resp}, "gemini-2.5-flash", nil)

	got, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
	assert.Equal(t, "gemini-2.5-flash", c.Model())
}

func TestGenerateEmptyResponseIsUnexpected(t *testing.T) {
	c := newClient(&fakeModels{resp: &genai.GenerateContentResponse{}}, "", nil)

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrUnexpected))
}

func TestGenerateClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "quota", err: genai.APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"}, want: llm.ErrRateLimited},
		{name: "status only", err: genai.APIError{Status: "RESOURCE_EXHAUSTED"}, want: llm.ErrRateLimited},
		{name: "overloaded", err: genai.APIError{Code: 503, Status: "UNAVAILABLE"}, want: llm.ErrUnavailable},
		{name: "invalid argument", err: genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, want: llm.ErrUnexpected},
		{name: "deadline", err: fmt.Errorf("do request: %w", context.DeadlineExceeded), want: llm.ErrUnavailable},
		{name: "opaque", err: errors.New("weird"), want: llm.ErrUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(&fakeModels{err: tt.err}, "", nil)
			_, err := c.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var modelErr *llm.Error
			require.True(t, errors.As(err, &modelErr))
			assert.Equal(t, "gemini", modelErr.Provider)
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{APIKey: "  "})
	require.Error(t, err)
}
