package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"privlens/internal/config"
	"privlens/internal/llm"
	"privlens/internal/port"
)

const (
	name       = "gemini"
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Provider implements port.CompletionProvider using Google's Gemini API.
type Provider struct {
	apiKey  string
	models  llm.TierModels
	baseURL string
	client  *http.Client
}

// NewProvider creates a Gemini provider.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	base := apiBaseURL
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	return newProvider(cfg, base)
}

// NewProviderWithEndpoint creates a provider pointing at a custom models base URL (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, baseURL string) *Provider {
	return newProvider(cfg, baseURL)
}

// Factory adapts NewProvider to llm.ProviderFactory.
func Factory(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	return NewProvider(cfg), nil
}

func newProvider(cfg *config.ProviderConfig, baseURL string) *Provider {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		models:  llm.TierModelsFromConfig(cfg, "gemini-2.5-pro", "gemini-2.0-flash"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return name }

func (p *Provider) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionResponse, error) {
	model := p.models.Model(req.Tier)
	endpoint := fmt.Sprintf("%s/%s:generateContent", p.baseURL, model)

	genConfig := map[string]interface{}{
		"responseMimeType": "application/json",
		"temperature":      req.Temperature,
	}
	if req.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = req.MaxTokens
	}
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": req.Prompt},
				},
			},
		},
		"generationConfig": genConfig,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, llm.StatusToError(name, resp, respBody)
	}

	return parseResponse(respBody, model)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model string) (*port.CompletionResponse, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.MalformedResponseError{Err: fmt.Errorf("unmarshaling response: %w", err), Raw: string(body)}
	}

	if len(resp.Candidates) == 0 {
		return nil, &llm.EmptyResponseError{Provider: name, Reason: "no candidates"}
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &llm.EmptyResponseError{Provider: name, Reason: "no parts"}
	}

	return &port.CompletionResponse{
		Text:         resp.Candidates[0].Content.Parts[0].Text,
		Model:        model,
		Provider:     name,
		FinishReason: resp.Candidates[0].FinishReason,
	}, nil
}
