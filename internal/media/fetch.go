/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package media resolves asset source URLs: it classifies them, fetches and
// decodes image bytes (optionally through an on-disk LRU cache), and provides
// the playback handles video views register with the board.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"assetcanvas/internal/config"
	"assetcanvas/internal/domain"
	applog "assetcanvas/internal/log"
)

var (
	// ErrUnsupported is returned for URL schemes or image formats that cannot be loaded.
	ErrUnsupported = errors.New("unsupported media")
	// ErrTooLarge is returned when a source exceeds the configured byte limit.
	ErrTooLarge = errors.New("media exceeds size limit")
)

// Classify returns the asset kind for a source URL.
func Classify(src string) domain.Kind { return domain.KindForURL(src) }

// Fetcher loads media bytes from http(s) URLs, file:// URLs and plain paths.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	cache    *Cache
	log      *slog.Logger
}

// NewFetcher builds a fetcher from the media config. cache may be nil.
func NewFetcher(cfg config.MediaConfig, cache *Cache) *Fetcher {
	timeout := time.Duration(cfg.FetchTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: cfg.MaxImageBytes,
		cache:    cache,
		log:      applog.WithComponent("media"),
	}
}

// Fetch returns the raw bytes behind src. Remote results go through the cache when one is set.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrUnsupported, src, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if f.cache == nil {
			return f.fetchHTTP(ctx, u.String())
		}
		return f.cache.GetOrCreate(ctx, u.String(), func(ctx context.Context) ([]byte, error) {
			return f.fetchHTTP(ctx, u.String())
		})
	case "file":
		return f.readFile(u.Path)
	case "":
		return f.readFile(src)
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", src, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", src, resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, ErrTooLarge
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer func() { _ = fh.Close() }()
	return f.readLimited(fh)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	if int64(len(b)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	return b, nil
}

// Image fetches and decodes src. Supported formats: png, jpeg, gif, webp, bmp, tiff.
func (f *Fetcher) Image(ctx context.Context, src string) (image.Image, string, error) {
	b, err := f.Fetch(ctx, src)
	if err != nil {
		f.log.Debug("fetch failed", slog.Any("err", err))
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode: %v", ErrUnsupported, err)
	}
	return img, format, nil
}
