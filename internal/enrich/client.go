package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/newsloom/newsloom/internal/types"
)

// Provider specifies which classification backend to use.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// Client communicates with a hosted text-generation service.
type Client struct {
	provider Provider
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for the given provider. The API key comes from
// the environment credential named in the configuration; the caller resolves
// it before construction.
func NewClient(provider Provider, endpoint, model, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		provider: provider,
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("component", "enrich_client"),
	}
}

// Generate sends a prompt and returns the raw response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	switch c.provider {
	case ProviderGemini:
		return c.generateGemini(ctx, prompt)
	case ProviderOpenAI:
		return c.generateOpenAI(ctx, prompt)
	case ProviderOllama:
		return c.generateOllama(ctx, prompt)
	default:
		return "", &types.EnrichError{Provider: string(c.provider), Err: fmt.Errorf("unsupported provider")}
	}
}

func (c *Client) generateGemini(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, _ := json.Marshal(payload)

	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		endpoint, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", &types.EnrichError{Provider: "gemini", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &types.EnrichError{Provider: "gemini", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &types.EnrichError{Provider: "gemini", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &types.EnrichError{Provider: "gemini", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &types.EnrichError{Provider: "gemini", Err: fmt.Errorf("no candidates in response")}
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	body, _ := json.Marshal(payload)

	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &types.EnrichError{Provider: "openai", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &types.EnrichError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &types.EnrichError{Provider: "openai", Err: err}
	}
	if len(result.Choices) == 0 {
		return "", &types.EnrichError{Provider: "openai", Err: fmt.Errorf("no choices in response")}
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) generateOllama(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	body, _ := json.Marshal(payload)

	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &types.EnrichError{Provider: "ollama", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &types.EnrichError{Provider: "ollama", Err: err}
	}
	defer resp.Body.Close()

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &types.EnrichError{Provider: "ollama", Err: fmt.Errorf("decode response: %w", err)}
	}
	return result.Response, nil
}
