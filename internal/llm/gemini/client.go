package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"resume-matcher/internal/llm"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-1.5-pro"

	maxLogLength = 200
)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures the Gemini client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string
	Logger  *zap.Logger
}

// Client implements llm.Generator on top of google.golang.org/genai.
type Client struct {
	models    contentModels
	modelName string
	logger    *zap.Logger
}

var _ llm.Generator = (*Client)(nil)

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		cfg.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, opts.Model, opts.Logger), nil
}

func newClient(models contentModels, model string, logger *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{models: models, modelName: model, logger: logger}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}

// Generate sends the prompt and returns the concatenated text of the first candidate parts.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("gemini generate content request",
		zap.String("ai_model", c.modelName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		return "", classify(err)
	}

	output := joinText(resp)
	if output == "" {
		return "", &llm.Error{Kind: llm.KindUnexpected, Provider: providerName, Err: errors.New("empty response")}
	}

	c.logger.Debug("gemini generate content response",
		zap.String("ai_model", c.modelName),
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", truncate(output, maxLogLength)),
	)
	return output, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Code
		if status == 0 && strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
			status = 429
		}
		if status != 0 {
			return llm.NewError(providerName, status, err)
		}
	}
	return llm.NewError(providerName, 0, err)
}

func joinText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate with content is used.
		if builder.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(builder.String())
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
