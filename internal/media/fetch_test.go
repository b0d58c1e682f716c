/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetcanvas/internal/config"
	"assetcanvas/internal/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testMediaConfig() config.MediaConfig {
	cfg := config.Defaults().Media
	cfg.FetchTimeoutMs = 2000
	return cfg
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.KindVideo, Classify("https://cdn.test/a.mp4"))
	assert.Equal(t, domain.KindImage, Classify("https://cdn.test/a.png"))
}

func TestFetchHTTPAndDecode(t *testing.T) {
	data := pngBytes(t, 4, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	f := NewFetcher(testMediaConfig(), nil)
	img, format, err := f.Image(context.Background(), srv.URL+"/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(testMediaConfig(), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	cfg := testMediaConfig()
	cfg.MaxImageBytes = 16
	f := NewFetcher(cfg, nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/big.png")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetchLocalPathAndFileURL(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "local.png")
	require.NoError(t, os.WriteFile(p, pngBytes(t, 2, 2), 0o644))

	f := NewFetcher(testMediaConfig(), nil)
	_, _, err := f.Image(context.Background(), p)
	require.NoError(t, err)
	_, _, err = f.Image(context.Background(), "file://"+filepath.ToSlash(p))
	require.NoError(t, err)
}

func TestFetchLocalPathIgnoresSurroundingSpace(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pasted.png")
	want := pngBytes(t, 1, 1)
	require.NoError(t, os.WriteFile(p, want, 0o644))

	f := NewFetcher(testMediaConfig(), nil)
	got, err := f.Fetch(context.Background(), "  "+p+" \n")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFetchUnsupported(t *testing.T) {
	f := NewFetcher(testMediaConfig(), nil)
	_, err := f.Fetch(context.Background(), "ftp://example.test/x.png")
	assert.ErrorIs(t, err, ErrUnsupported)

	dir := t.TempDir()
	p := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(p, []byte("not an image"), 0o644))
	_, _, err = f.Image(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFetchUsesCache(t *testing.T) {
	var hits int32
	data := pngBytes(t, 1, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	ctx := context.Background()
	c, err := OpenCache(ctx, filepath.Join(t.TempDir(), "media.db"), 1<<20)
	require.NoError(t, err)
	defer c.Close()

	f := NewFetcher(testMediaConfig(), c)
	for i := 0; i < 3; i++ {
		b, err := f.Fetch(ctx, srv.URL+"/one.png")
		require.NoError(t, err)
		assert.Equal(t, data, b)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
