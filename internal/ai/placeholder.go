// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"net/url"
	"strings"

	"thumbcraft/internal/models"
	"thumbcraft/internal/slug"
)

// DefaultPlaceholderBase serves random stock photos at a requested size.
const DefaultPlaceholderBase = "https://picsum.photos"

// PlaceholderURL builds a deterministic stock-photo URL used when no
// provider credential is configured. The seed is derived from the title,
// style and colour scheme so the same form state yields the same image.
func PlaceholderURL(base, title, style, colorScheme string, d models.Dimensions) string {
	if base == "" {
		base = DefaultPlaceholderBase
	}
	seed := fmt.Sprintf("%s-%s-%s", slug.Hyphenate(title), style, colorScheme)
	return fmt.Sprintf("%s/%d/%d?random=%s",
		strings.TrimRight(base, "/"), d.Width, d.Height, url.QueryEscape(seed))
}
