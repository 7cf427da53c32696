// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// freepikProvider implements ImageProvider using the Freepik "mystic"
// text-to-image endpoint (POST /v1/ai/mystic).
type freepikProvider struct {
	config ProviderConfig
	client *http.Client
}

// newFreepik creates a new Freepik provider.
func newFreepik(cfg ProviderConfig) *freepikProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.freepik.com"
	}
	if cfg.Model == "" {
		cfg.Model = "realism"
	}
	return &freepikProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *freepikProvider) Name() string { return "freepik" }

// GenerateImage posts the prompt with the resolved aspect ratio and
// resolution, and returns the image URL from the response.
func (p *freepikProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	body := freepikRequest{
		Prompt:            req.Prompt,
		AspectRatio:       req.AspectRatio,
		Resolution:        req.Resolution,
		Model:             p.config.Model,
		CreativeDetailing: 33,
		Engine:            "automatic",
		FixedGeneration:   false,
		FilterNSFW:        true,
		HDR:               50,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("freepik marshal: %w", err)
	}

	url := p.config.BaseURL + "/v1/ai/mystic"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("freepik request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-freepik-api-key", p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("freepik http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("freepik read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("freepik API error (status %d): %s", resp.StatusCode, errorMessage(respBody, resp.Status))
	}

	imageURL, err := extractImageURL(respBody)
	if err != nil {
		return nil, fmt.Errorf("freepik: %w", err)
	}

	return &ImageResult{URL: imageURL, Provider: p.Name()}, nil
}

// --- Freepik request types ---

type freepikRequest struct {
	Prompt            string `json:"prompt"`
	AspectRatio       string `json:"aspect_ratio"`
	Resolution        string `json:"resolution"`
	Model             string `json:"model"`
	CreativeDetailing int    `json:"creative_detailing"`
	Engine            string `json:"engine"`
	FixedGeneration   bool   `json:"fixed_generation"`
	FilterNSFW        bool   `json:"filter_nsfw"`
	HDR               int    `json:"hdr"`
}
