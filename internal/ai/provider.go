// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai talks to third-party image generation APIs (Freepik, OpenAI).
// Each provider implements ImageProvider, and the Registry selects the
// active one by name. Provider payloads are normalised at this boundary
// into a single ImageResult.
package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"thumbcraft/internal/models"
)

// ErrNoImageURL is returned when a provider answers successfully but the
// body carries no usable image URL.
var ErrNoImageURL = errors.New("ai: no image url in provider response")

// ImageRequest is what every provider receives.
type ImageRequest struct {
	Prompt      string
	AspectRatio string // provider bucket, e.g. "landscape_16_9"
	Resolution  string // "1k" or "2k"
	Dimensions  models.Dimensions
}

// ImageResult is the normalised provider response.
type ImageResult struct {
	URL      string
	Provider string
}

// ImageProvider defines the interface every image provider implements.
type ImageProvider interface {
	// GenerateImage creates an image from the request and returns where it
	// can be fetched.
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)

	// Name returns the provider identifier (e.g., "freepik").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available image providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ImageProvider
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped,
// so a registry built without any credentials is valid and reports
// Configured() == false.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]ImageProvider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "freepik":
			r.providers[name] = newFreepik(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		}
	}

	return r
}

// GenerateImage calls the active provider.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	return p.GenerateImage(ctx, req)
}

// Active returns the currently active provider.
func (r *Registry) Active() (ImageProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// Configured reports whether the active provider has credentials.
func (r *Registry) Configured() bool {
	_, err := r.Active()
	return err == nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers that have API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Misconfigured reports whether the active provider has no key while
// another provider does, which usually means AI_PROVIDER points at the
// wrong provider.
func (r *Registry) Misconfigured() bool {
	return !r.Configured() && len(r.Available()) > 0
}

// Register adds or replaces a provider in the registry. Used to inject
// test doubles.
func (r *Registry) Register(name string, p ImageProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}
