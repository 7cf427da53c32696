package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"thumbcraft/internal/models"
)

// openAIProvider implements ImageProvider using the OpenAI images API
// (POST /v1/images/generations).
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "dall-e-3"
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// GenerateImage requests a single image and returns data[0].url.
func (p *openAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	body := openAIImageRequest{
		Model:          p.config.Model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           openAISize(req.Dimensions),
		ResponseFormat: "url",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai marshal: %w", err)
	}

	url := p.config.BaseURL + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, errorMessage(respBody, resp.Status))
	}

	imageURL, err := extractImageURL(respBody)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &ImageResult{URL: imageURL, Provider: p.Name()}, nil
}

// openAISize maps the target dimensions onto one of the three sizes the
// images endpoint accepts.
func openAISize(d models.Dimensions) string {
	switch {
	case d.Width > d.Height:
		return "1792x1024"
	case d.Height > d.Width:
		return "1024x1792"
	default:
		return "1024x1024"
	}
}

// --- OpenAI request types ---

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}
