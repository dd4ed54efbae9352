package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

// OpenAIConfig configures the OpenAI responses provider
type OpenAIConfig struct {
	APIKey          string
	Model           string
	ResponsesURL    string
	MaxOutputTokens int
	HTTPClient      *http.Client
}

// OpenAIProvider calls the OpenAI responses endpoint
type OpenAIProvider struct {
	cfg OpenAIConfig
}

// NewOpenAIProvider builds a provider, filling in the endpoint, model and
// client defaults
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 60
	}
	return &OpenAIProvider{cfg: cfg}
}

type responsesRequest struct {
	Model           string `json:"model"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

type responsesPayload struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// text returns output_text, or the first non-empty content text
func (p responsesPayload) text() string {
	if t := strings.TrimSpace(p.OutputText); t != "" {
		return t
	}
	for _, item := range p.Output {
		for _, content := range item.Content {
			if t := strings.TrimSpace(content.Text); t != "" {
				return t
			}
		}
	}
	return ""
}

// Complete sends prompt and returns the model's text
func (o *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(responsesRequest{
		Model:           o.cfg.Model,
		Input:           prompt,
		MaxOutputTokens: o.cfg.MaxOutputTokens,
	})
	if err != nil {
		return "", ErrProviderRequest(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.ResponsesURL, bytes.NewReader(body))
	if err != nil {
		return "", ErrProviderRequest(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	res, err := o.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", ErrProviderRequest(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", ErrProviderStatus(res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload responsesPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", ErrProviderRequest(err)
	}
	text := payload.text()
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}
