// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// blob.go keeps re-encoded download bytes in Valkey for a short time so the
// browser can save them from our own origin instead of the provider's.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// blobKeyPrefix is the Valkey key prefix for cached download blobs.
	blobKeyPrefix = "blob:"

	// DefaultBlobTTL is how long a prepared download stays fetchable.
	DefaultBlobTTL = 10 * time.Minute
)

// ErrBlobNotFound is returned by Get for unknown or expired tokens.
var ErrBlobNotFound = errors.New("blob not found or expired")

// Blob is one cached download.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// BlobCache stores download blobs in Valkey under random tokens.
type BlobCache struct {
	client  *redis.Client
	ttl     time.Duration
	baseURL string
}

// NewBlobCache creates a blob cache. baseURL is the path prefix the
// download route is mounted on, e.g. "/api/downloads".
func NewBlobCache(client *redis.Client, ttl time.Duration, baseURL string) *BlobCache {
	if ttl == 0 {
		ttl = DefaultBlobTTL
	}
	return &BlobCache{client: client, ttl: ttl, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put stores the blob and returns the URL it can be fetched from.
func (bc *BlobCache) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	token := uuid.NewString()
	key := blobKeyPrefix + token

	_, err := bc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"data", data,
			"content_type", contentType,
			"filename", filename,
		)
		pipe.Expire(ctx, key, bc.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("blob cache put: %w", err)
	}

	slog.Debug("blob cached", "token", token, "bytes", len(data), "ttl", bc.ttl)
	return bc.baseURL + "/" + token, nil
}

// Get returns the blob stored under token.
func (bc *BlobCache) Get(ctx context.Context, token string) (*Blob, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrBlobNotFound
	}

	fields, err := bc.client.HGetAll(ctx, blobKeyPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("blob cache get: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrBlobNotFound
	}

	return &Blob{
		Data:        []byte(fields["data"]),
		ContentType: fields["content_type"],
		Filename:    fields["filename"],
	}, nil
}

// Name identifies the store in logs and metrics.
func (bc *BlobCache) Name() string { return "valkey" }
