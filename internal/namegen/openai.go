package namegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOpenAIModel balances naming quality against cost.
	DefaultOpenAIModel = "gpt-4o-mini"

	openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

	defaultTimeout = 30 * time.Second

	defaultCount = 5
	maxCount     = 10
)

const systemPrompt = `You are a branding expert. Generate short, memorable,
pronounceable brand names. Respond with JSON only, in the shape
{"names":[{"name":"...","tagline":"..."}]}. Names must be single words
without spaces, suitable as the label of a domain name.`

// OpenAIGenerator implements Generator using OpenAI's chat completions API.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// OpenAIConfig configures the OpenAI generator.
type OpenAIConfig struct {
	// APIKey is required for authentication.
	APIKey string

	// Model specifies which chat model to use. Default: gpt-4o-mini.
	Model string

	// Timeout bounds each API call when no custom HTTPClient is given.
	// Default: 30s.
	Timeout time.Duration

	// HTTPClient allows custom HTTP client configuration. When set, it
	// takes precedence over Timeout.
	HTTPClient *http.Client

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

// NewOpenAIGenerator creates a new OpenAI-backed name generator.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIChatCompletionsURL
	}

	return &OpenAIGenerator{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Generate asks the model for name candidates and parses its JSON reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) ([]GeneratedName, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	prompt := fmt.Sprintf("Generate %d brand name candidates for: %s", count, description)
	if req.Style != "" {
		prompt += fmt.Sprintf("\nNaming style: %s", req.Style)
	}

	requestBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.9,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d", ErrRateLimitExceeded, resp.StatusCode)
		}
		var errorResp chatErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, errorResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var payload namesPayload
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed model output: %v", ErrGenerationFailed, err)
	}
	if len(payload.Names) == 0 {
		return nil, fmt.Errorf("%w: model returned no names", ErrGenerationFailed)
	}

	if len(payload.Names) > count {
		payload.Names = payload.Names[:count]
	}
	return payload.Names, nil
}

// OpenAI API request/response types

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type namesPayload struct {
	Names []GeneratedName `json:"names"`
}
