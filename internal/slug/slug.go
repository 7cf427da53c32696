// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns thumbnail titles into hyphenated keys for filenames,
// placeholder seeds and object-storage paths.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches any run of whitespace, including Unicode spaces.
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Hyphenate lower-cases s and replaces every whitespace run with a single
// hyphen. Punctuation is kept, so "Top 10 Tips!" becomes "top-10-tips!".
// Leading and trailing whitespace turn into hyphens as well.
func Hyphenate(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}

// Generate creates a URL-safe slug: lower-case ASCII letters, digits and
// single hyphens only.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
