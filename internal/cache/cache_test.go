// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestBlobCache starts an in-process Valkey and returns a cache bound to it.
func newTestBlobCache(t *testing.T, ttl time.Duration) (*BlobCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewBlobCache(client, ttl, "/api/downloads/"), mr
}

func TestConnectValkey(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Fatalf("ConnectValkey: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("client unusable after connect: %v", err)
	}
}

func TestConnectValkey_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")
	mr.Close()

	if _, err := ConnectValkey(host, port, ""); err == nil {
		t.Error("expected error for a closed server")
	}
}

func TestBlobCache_PutGet(t *testing.T) {
	bc, _ := newTestBlobCache(t, time.Minute)
	ctx := context.Background()
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

	url, err := bc.Put(ctx, "top-10-tips.png", "image/png", data)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(url, "/api/downloads/") {
		t.Fatalf("url: got %q", url)
	}
	token := strings.TrimPrefix(url, "/api/downloads/")

	blob, err := bc.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(blob.Data, data) {
		t.Errorf("data: got %v, want %v", blob.Data, data)
	}
	if blob.ContentType != "image/png" || blob.Filename != "top-10-tips.png" {
		t.Errorf("metadata: %+v", blob)
	}
}

func TestBlobCache_Expiry(t *testing.T) {
	bc, mr := newTestBlobCache(t, 30*time.Second)
	ctx := context.Background()

	url, err := bc.Put(ctx, "a.jpeg", "image/jpeg", []byte("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	token := url[strings.LastIndex(url, "/")+1:]

	if ttl := mr.TTL(blobKeyPrefix + token); ttl != 30*time.Second {
		t.Errorf("ttl: got %v, want 30s", ttl)
	}

	mr.FastForward(31 * time.Second)
	if _, err := bc.Get(ctx, token); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound after expiry, got %v", err)
	}
}

func TestBlobCache_GetUnknownToken(t *testing.T) {
	bc, _ := newTestBlobCache(t, 0)
	ctx := context.Background()

	for _, token := range []string{"not-a-uuid", "6f1c1f7e-8a4b-4a62-9a55-000000000000"} {
		if _, err := bc.Get(ctx, token); !errors.Is(err, ErrBlobNotFound) {
			t.Errorf("Get(%q): expected ErrBlobNotFound, got %v", token, err)
		}
	}
}

func TestBlobCache_ServerDown(t *testing.T) {
	bc, mr := newTestBlobCache(t, 0)
	mr.Close()

	if _, err := bc.Put(context.Background(), "a.png", "image/png", []byte("x")); err == nil {
		t.Error("expected Put to fail when Valkey is down")
	}
}
