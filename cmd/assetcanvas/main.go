/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"assetcanvas/internal/board"
	"assetcanvas/internal/config"
	"assetcanvas/internal/crash"
	"assetcanvas/internal/editor"
	applog "assetcanvas/internal/log"
	"assetcanvas/internal/media"
	"assetcanvas/internal/telemetry"
	"assetcanvas/internal/ui"
	"assetcanvas/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Asset Canvas: place, drag, resize and play media on a 2D board")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  assetcanvas version|-v|--version            Show version")
	_, _ = fmt.Fprintln(w, "  assetcanvas ui                              Launch desktop UI (build with -tags fyne for full UI)")
	_, _ = fmt.Fprintln(w, "  assetcanvas summary <url>...                Add URLs to a board and print the asset summary")
	_, _ = fmt.Fprintln(w, "  assetcanvas export <png|pdf|svg> <out> <url>...")
	_, _ = fmt.Fprintln(w, "                                              Add URLs to a board and export a snapshot")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if err := config.LoadDotEnv(".env"); err != nil {
		_, _ = fmt.Fprintln(stderr, "Warning:", err)
	}
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   stderr,
	})
	defer applog.Close()
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config ignored", slog.Any("err", cfgErr))
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.NewDefault(tcfg)

	if dir, err := config.ConfigDir(); err == nil {
		crash.Dir = filepath.Join(dir, "crash")
	}
	store := board.NewStore()
	defer crash.Recover(store)

	l.Debug("start", slog.Int("args", len(args)))
	cmd := "ui"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, "Asset Canvas")
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "--help", "-h":
		usage(stdout)
		return 0
	case "ui":
		fetcher, closeMedia := openMedia(cfg, l)
		defer closeMedia()
		if err := ui.Run(ui.Options{Config: cfg, Store: store, Images: fetcher}); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			if errors.Is(err, ui.ErrUnavailable) {
				_, _ = fmt.Fprintln(stderr, "Headless commands still work: assetcanvas summary <url>... | assetcanvas export <png|pdf|svg> <out> <url>...")
			}
			return 1
		}
		return 0
	case "summary":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "summary requires at least one <url>")
			usage(stderr)
			return 2
		}
		addAll(store, args[1:])
		if s := store.Summary(); s != "" {
			_, _ = fmt.Fprintln(stdout, s)
		}
		return 0
	case "export":
		if len(args) < 4 {
			_, _ = fmt.Fprintln(stderr, "export requires <png|pdf|svg> <out> and at least one <url>")
			usage(stderr)
			return 2
		}
		format := strings.ToLower(args[1])
		pick, ok := exporters[format]
		if !ok {
			_, _ = fmt.Fprintf(stderr, "unknown export format %q\n", args[1])
			return 2
		}
		out, _ := filepath.Abs(args[2])
		addAll(store, args[3:])

		fetcher, closeMedia := openMedia(cfg, l)
		defer closeMedia()
		panel := editor.NewControlPanel(store, editor.WithImageSource(fetcher))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := pick(panel, ctx, out); err != nil {
			l.Error("export failed", slog.String("format", format), slog.Any("err", err))
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "Exported %d asset(s) to %s\n", store.Len(), out)
		return 0
	}

	usage(stderr)
	return 2
}

var exporters = map[string]func(*editor.ControlPanel, context.Context, string) error{
	"png": (*editor.ControlPanel).ExportPNG,
	"pdf": (*editor.ControlPanel).ExportPDF,
	"svg": (*editor.ControlPanel).ExportSVG,
}

func addAll(store *board.Store, urls []string) {
	for _, u := range urls {
		store.AddAsset(u)
	}
}

// openMedia builds the fetcher, with the on-disk cache when enabled. A cache
// that cannot be opened is logged and skipped.
func openMedia(cfg config.AppConfig, l *slog.Logger) (*media.Fetcher, func()) {
	if !cfg.Media.CacheEnabled {
		return media.NewFetcher(cfg.Media, nil), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cache, err := media.OpenCache(ctx, cfg.Media.EffectiveCachePath(), cfg.Media.CacheMaxBytes)
	if err != nil {
		l.Warn("media cache disabled", slog.Any("err", err))
		return media.NewFetcher(cfg.Media, nil), func() {}
	}
	return media.NewFetcher(cfg.Media, cache), func() {
		if err := cache.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			l.Warn("close media cache", slog.Any("err", err))
		}
	}
}
