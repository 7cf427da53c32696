// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client used as
// the blob store for prepared downloads. Objects go to a private bucket and
// are handed out through short-lived presigned URLs. Path-style addressing
// keeps it working with MinIO, CEPH and Hetzner.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"thumbcraft/internal/slug"
)

// DefaultURLExpiry is how long a presigned download URL stays valid.
const DefaultURLExpiry = 15 * time.Minute

// Config holds the S3 connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string        // key prefix, default "downloads"
	URLExpiry time.Duration // presigned URL lifetime
}

// Client wraps an S3 client for download blobs in a single bucket.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
	prefix    string
	expiry    time.Duration
	now       func() time.Time
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint, credentials or bucket are empty, allowing the
// app to start without storage.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, nil
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "downloads"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = DefaultURLExpiry
	}
	// Presigned GET URLs are capped at 7 days.
	if cfg.URLExpiry > 7*24*time.Hour {
		return nil, fmt.Errorf("s3 url expiry %s exceeds 7 days", cfg.URLExpiry)
	}

	s3Client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(strings.TrimRight(cfg.Endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		expiry:    cfg.URLExpiry,
		now:       time.Now,
	}, nil
}

// Put uploads data and returns a presigned GET URL for it. The object is
// served with a Content-Disposition that carries the download filename.
func (c *Client) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := c.objectKey(filename)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(c.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentLength:      aws.Int64(int64(len(data))),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}

	return c.PresignedURL(ctx, key)
}

// PresignedURL generates a pre-signed GET URL for an object in the bucket.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.expiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", c.bucket, key, err)
	}
	return req.URL, nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Name identifies the store in logs and metrics.
func (c *Client) Name() string { return "s3" }

// objectKey builds "<prefix>/YYYY/MM/DD/<uuid>-<slug>.<ext>". The uuid keeps
// downloads of identically titled thumbnails apart.
func (c *Client) objectKey(filename string) string {
	ext := path.Ext(filename)
	base := slug.Generate(strings.TrimSuffix(filename, ext))
	if base == "" {
		base = "thumbnail"
	}
	return fmt.Sprintf("%s/%s/%s-%s%s",
		c.prefix, c.now().UTC().Format("2006/01/02"), uuid.NewString(), base, strings.ToLower(ext))
}
