// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrServiceUnavailable is the single user-facing error for failures
	// that escape provider fallback.
	ErrServiceUnavailable = errors.New("AI image generation service is temporarily unavailable. Please try again.")

	// ErrSuperseded is returned for a live request whose result was
	// overtaken by a newer request from the same session.
	ErrSuperseded = errors.New("live generation superseded by a newer request")
)

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid request: " + strings.Join(parts, "; ")
}
