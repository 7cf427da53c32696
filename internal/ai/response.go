// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"fmt"
)

// imageEnvelope covers every success shape image providers have been seen
// to return. Data is either a list of image objects or an object with a
// "generated" list of URLs.
type imageEnvelope struct {
	ImageURL      string          `json:"imageUrl"`
	ImageURLSnake string          `json:"image_url"`
	URL           string          `json:"url"`
	Data          json.RawMessage `json:"data"`
}

type imageItem struct {
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

type generatedData struct {
	Generated []string `json:"generated"`
}

// extractImageURL probes, in order: imageUrl, image_url, url, data[0].url,
// data[0].image_url and data.generated[0].
func extractImageURL(body []byte) (string, error) {
	var env imageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}

	switch {
	case env.ImageURL != "":
		return env.ImageURL, nil
	case env.ImageURLSnake != "":
		return env.ImageURLSnake, nil
	case env.URL != "":
		return env.URL, nil
	}

	if len(env.Data) == 0 {
		return "", ErrNoImageURL
	}

	var items []imageItem
	if err := json.Unmarshal(env.Data, &items); err == nil {
		if len(items) > 0 {
			if items[0].URL != "" {
				return items[0].URL, nil
			}
			if items[0].ImageURL != "" {
				return items[0].ImageURL, nil
			}
		}
		return "", ErrNoImageURL
	}

	var gen generatedData
	if err := json.Unmarshal(env.Data, &gen); err == nil && len(gen.Generated) > 0 && gen.Generated[0] != "" {
		return gen.Generated[0], nil
	}

	return "", ErrNoImageURL
}

// errorMessage pulls a human-readable message out of an error body,
// falling back to the HTTP status text.
func errorMessage(body []byte, status string) string {
	var e struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		switch v := e.Error.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if m, ok := v["message"].(string); ok && m != "" {
				return m
			}
		}
	}
	return status
}
