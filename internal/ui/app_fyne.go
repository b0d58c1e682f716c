//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"assetcanvas/internal/board"
	"assetcanvas/internal/editor"
	applog "assetcanvas/internal/log"
	"assetcanvas/internal/version"
)

// Run builds the main window around opts.Store and blocks until it closes.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	if opts.Store == nil {
		opts.Store = board.NewStore()
	}

	fyneApp := app.NewWithID("assetcanvas")
	applyTheme(fyneApp, opts.Config.General.Theme)
	w := fyneApp.NewWindow("Asset Canvas")

	// Restore window size from preferences, falling back to config
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", opts.Config.Window.Width)
	winH := prefs.IntWithFallback("window.height", opts.Config.Window.Height)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	v := newMainView(opts, w)
	w.SetContent(v.content)
	w.SetMainMenu(v.menu())

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		v.close()
		w.Close()
	})

	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

// mainView ties the board canvas, control panel and summary panel together.
type mainView struct {
	w       fyne.Window
	log     *slog.Logger
	surface *editor.Surface
	panel   *editor.ControlPanel
	board   *BoardCanvas

	entry   *widget.Entry
	summary *widget.Label
	status  *widget.Label
	content fyne.CanvasObject

	cancel func()
}

func newMainView(opts Options, w fyne.Window) *mainView {
	v := &mainView{w: w, log: applog.WithComponent("ui")}
	v.surface = editor.NewSurface(opts.Store)
	v.panel = editor.NewControlPanel(opts.Store, editor.WithImageSource(opts.Images))
	v.board = NewBoardCanvas(v.surface, opts.Images)

	v.entry = widget.NewEntry()
	v.entry.SetPlaceHolder("Image or video URL (.mp4 plays as video)")
	v.entry.OnChanged = v.panel.SetURL
	v.entry.OnSubmitted = func(string) { v.addAsset() }
	addBtn := widget.NewButtonWithIcon("Add Asset", theme.ContentAddIcon(), v.addAsset)
	addBtn.Importance = widget.HighImportance
	logBtn := widget.NewButtonWithIcon("Log Asset Info", theme.InfoIcon(), v.logAssetInfo)

	v.summary = widget.NewLabel("")
	v.summary.TextStyle = fyne.TextStyle{Monospace: true}
	v.status = widget.NewLabel("Ready")

	v.cancel = opts.Store.Subscribe(func(c board.Change) {
		if c.ListChanged() {
			v.refreshSummary()
		}
	})
	v.refreshSummary()

	controls := container.NewBorder(nil, nil, nil, container.NewHBox(addBtn, logBtn), v.entry)
	summaryTitle := widget.NewLabelWithStyle("Assets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	summaryPane := container.NewBorder(summaryTitle, nil, nil, nil, container.NewScroll(v.summary))

	split := container.NewVSplit(container.NewScroll(v.board), summaryPane)
	split.Offset = 0.78
	v.content = container.NewBorder(controls, v.status, nil, nil, split)
	return v
}

func (v *mainView) addAsset() {
	a, ok := v.panel.Add()
	// the entry always clears; SetText re-syncs the pending URL to ""
	v.entry.SetText("")
	if ok {
		v.setStatus(fmt.Sprintf("Added %s asset %d", a.Kind, a.ID))
	}
}

func (v *mainView) logAssetInfo() {
	lines := v.panel.LogAssetInfo()
	v.setStatus(fmt.Sprintf("Logged %d asset(s)", len(lines)))
}

func (v *mainView) refreshSummary() {
	v.summary.SetText(v.surface.Store().Summary())
}

func (v *mainView) setStatus(s string) {
	v.status.SetText(s)
	v.log.Info("status", slog.String("text", s))
}

func (v *mainView) close() {
	v.cancel()
	v.board.Close()
}

func (v *mainView) menu() *fyne.MainMenu {
	exportPNG := fyne.NewMenuItem("Export PNG…", func() { v.exportDialog("png", v.panel.ExportPNG) })
	exportPDF := fyne.NewMenuItem("Export PDF…", func() { v.exportDialog("pdf", v.panel.ExportPDF) })
	exportSVG := fyne.NewMenuItem("Export SVG…", func() { v.exportDialog("svg", v.panel.ExportSVG) })
	clearSel := fyne.NewMenuItem("Clear Selection", func() { v.surface.PointerUp() })
	logItem := fyne.NewMenuItem("Log Asset Info", v.logAssetInfo)

	aboutItem := fyne.NewMenuItem("About Asset Canvas", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Asset Canvas\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, v.w)
	})
	return fyne.NewMainMenu(
		fyne.NewMenu("File", exportPNG, exportPDF, exportSVG),
		fyne.NewMenu("Edit", clearSel, logItem),
		fyne.NewMenu("Help", aboutItem),
	)
}

func (v *mainView) exportDialog(ext string, run func(context.Context, string) error) {
	if v.surface.Store().Len() == 0 {
		dialog.ShowInformation("Export", "Add an asset first.", v.w)
		return
	}
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.w)
			return
		}
		if uc == nil {
			return
		}
		outPath := uc.URI().Path()
		_ = uc.Close()
		if !strings.HasSuffix(strings.ToLower(outPath), "."+ext) {
			outPath += "." + ext
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := run(ctx, outPath); err != nil {
			v.log.Error("export failed", slog.String("format", ext), slog.Any("err", err))
			dialog.ShowError(err, v.w)
			return
		}
		v.setStatus("Exported to " + outPath)
	}, v.w)
	save.SetFileName("board." + ext)
	save.SetFilter(fstorage.NewExtensionFileFilter([]string{"." + ext}))
	save.Show()
}

// variantTheme pins the default theme to one variant.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

func applyTheme(a fyne.App, name string) {
	switch name {
	case "light":
		a.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
	case "dark":
		a.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
	}
}
