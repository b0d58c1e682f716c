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
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"assetcanvas/internal/board"
	"assetcanvas/internal/domain"
	"assetcanvas/internal/editor"
	"assetcanvas/internal/export"
	applog "assetcanvas/internal/log"
	"assetcanvas/internal/media"
)

var (
	boardBackground = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf6, A: 255}
	frameColor      = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 255}
	selectedColor   = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 255}
	videoBackground = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 255}
	handleColor     = color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 255}
)

const handleSize = 12

func toPoint(p fyne.Position) domain.Point {
	return domain.Point{X: float64(p.X), Y: float64(p.Y)}
}

// BoardCanvas renders every asset of the store and turns raw pointer input
// into surface calls. It re-syncs its children on each store notification.
type BoardCanvas struct {
	widget.BaseWidget

	surface *editor.Surface
	store   *board.Store
	images  export.ImageSource
	log     *slog.Logger

	views  map[int64]*assetWidget
	order  []int64
	ctx    context.Context
	stop   context.CancelFunc
	cancel func()
}

// NewBoardCanvas subscribes to the surface's store. Call Close to detach.
func NewBoardCanvas(surface *editor.Surface, images export.ImageSource) *BoardCanvas {
	ctx, stop := context.WithCancel(context.Background())
	b := &BoardCanvas{
		surface: surface,
		store:   surface.Store(),
		images:  images,
		log:     applog.WithComponent("ui"),
		views:   map[int64]*assetWidget{},
		ctx:     ctx,
		stop:    stop,
	}
	b.ExtendBaseWidget(b)
	b.cancel = b.store.Subscribe(func(board.Change) { b.sync() })
	b.sync()
	return b
}

// Close unsubscribes from the store, stops pending loads and releases all media.
func (b *BoardCanvas) Close() {
	b.cancel()
	b.stop()
	for id, w := range b.views {
		w.destroy()
		delete(b.views, id)
	}
	b.order = nil
}

// sync mirrors the store into child widgets: new assets get a widget, removed
// ones are destroyed, the rest are restyled in place.
func (b *BoardCanvas) sync() {
	assets := b.store.Assets()
	sel, hasSel := b.store.Selected()
	seen := make(map[int64]bool, len(assets))
	order := make([]int64, 0, len(assets))
	for _, a := range assets {
		seen[a.ID] = true
		order = append(order, a.ID)
		w, ok := b.views[a.ID]
		if !ok {
			w = newAssetWidget(b.ctx, editor.NewAssetView(b.surface, a.ID), a, b.images)
			b.views[a.ID] = w
			b.log.Debug("asset view created", slog.Int64("id", a.ID), slog.String("kind", string(a.Kind)))
		}
		w.apply(a, hasSel && sel == a.ID)
	}
	for id, w := range b.views {
		if !seen[id] {
			w.destroy()
			delete(b.views, id)
			b.log.Debug("asset view destroyed", slog.Int64("id", id))
		}
	}
	b.order = order
	b.Refresh()
}

func (b *BoardCanvas) view(id int64) (*assetWidget, bool) {
	w, ok := b.views[id]
	return w, ok
}

// MouseDown selects the top-most asset under the pointer.
func (b *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.surface.PressAt(toPoint(e.Position))
}

// MouseUp ends a drag anywhere on the board.
func (b *BoardCanvas) MouseUp(*desktop.MouseEvent) { b.surface.PointerUp() }

// Dragged moves the selected asset. The canvas origin is derived from the
// event so the store receives pointer - canvas top-left.
func (b *BoardCanvas) Dragged(e *fyne.DragEvent) {
	origin := e.AbsolutePosition.Subtract(e.Position)
	b.surface.PointerMove(toPoint(e.AbsolutePosition), toPoint(origin))
}

func (b *BoardCanvas) DragEnd() { b.surface.PointerUp() }

func (b *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(boardBackground)
	r := &boardRenderer{b: b, bg: bg}
	r.rebuild()
	return r
}

type boardRenderer struct {
	b       *BoardCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardRenderer) rebuild() {
	objs := make([]fyne.CanvasObject, 0, len(r.b.order)+1)
	objs = append(objs, r.bg)
	for _, id := range r.b.order {
		if w, ok := r.b.views[id]; ok {
			objs = append(objs, w)
		}
	}
	r.objects = objs
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	for _, id := range r.b.order {
		w, ok := r.b.views[id]
		if !ok {
			continue
		}
		a := w.last
		w.Move(fyne.NewPos(float32(a.Position.X), float32(a.Position.Y)))
		w.Resize(fyne.NewSize(float32(a.Size.Width), float32(a.Size.Height)))
	}
}

func (r *boardRenderer) MinSize() fyne.Size           { return fyne.NewSize(640, 480) }
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardRenderer) Destroy()                     {}

func (r *boardRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.b.Size())
	canvas.Refresh(r.b)
}

// assetWidget draws one asset: its media body, the selection frame, the
// delete and play/pause buttons and the resize handle.
type assetWidget struct {
	widget.BaseWidget

	view *editor.AssetView
	last domain.Asset

	img     *canvas.Image
	broken  *canvas.Image
	video   *canvas.Rectangle
	clock   *canvas.Text
	frame   *canvas.Rectangle
	del     *widget.Button
	play    *widget.Button
	handle  *resizeHandle
	player  *media.Player
	anim    *fyne.Animation
	release func()
	stop    context.CancelFunc
}

func newAssetWidget(ctx context.Context, view *editor.AssetView, a domain.Asset, images export.ImageSource) *assetWidget {
	w := &assetWidget{view: view, last: a}
	w.ExtendBaseWidget(w)
	w.frame = canvas.NewRectangle(color.Transparent)
	w.frame.StrokeWidth = 1
	w.frame.StrokeColor = frameColor
	w.broken = canvas.NewImageFromResource(theme.BrokenImageIcon())
	w.broken.FillMode = canvas.ImageFillContain
	w.broken.Hide()
	w.del = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { view.Delete() })
	w.del.Importance = widget.DangerImportance
	w.handle = newResizeHandle(view)

	if a.IsVideo() {
		w.video = canvas.NewRectangle(videoBackground)
		w.clock = canvas.NewText(formatClock(0), color.White)
		w.clock.TextStyle = fyne.TextStyle{Monospace: true}
		w.play = widget.NewButton(view.PlayLabel(), func() { view.TogglePlay() })
		w.player = media.NewPlayer(a.SourceURL)
		w.anim = fyne.NewAnimation(time.Second/4, func(float32) {
			w.clock.Text = formatClock(w.player.Elapsed())
			w.clock.Refresh()
		})
		w.anim.RepeatCount = fyne.AnimationRepeatForever
		w.anim.Curve = fyne.AnimationLinear
		w.player.OnChange(func(playing bool) {
			if playing {
				w.anim.Start()
			} else {
				w.anim.Stop()
				w.clock.Text = formatClock(w.player.Elapsed())
				w.clock.Refresh()
			}
		})
		w.release = view.AttachMedia(w.player)
		w.stop = func() {}
	} else {
		w.img = canvas.NewImageFromImage(nil)
		w.img.FillMode = canvas.ImageFillStretch
		w.load(ctx, a.SourceURL, images)
	}
	return w
}

// load fetches the image off the UI goroutine. Failures only swap in the
// broken-media placeholder.
func (w *assetWidget) load(parent context.Context, src string, images export.ImageSource) {
	if images == nil {
		w.showBroken()
		w.stop = func() {}
		return
	}
	ctx, cancel := context.WithCancel(parent)
	w.stop = cancel
	go func() {
		img, _, err := images.Image(ctx, src)
		if ctx.Err() != nil {
			return
		}
		fyne.Do(func() {
			if err != nil {
				w.showBroken()
				return
			}
			w.img.Image = img
			w.img.Refresh()
		})
	}()
}

func (w *assetWidget) showBroken() {
	w.img.Hide()
	w.broken.Show()
	w.Refresh()
}

// apply restyles the widget from the latest record.
func (w *assetWidget) apply(a domain.Asset, selected bool) {
	w.last = a
	if selected {
		w.frame.StrokeColor = selectedColor
		w.frame.StrokeWidth = 3
	} else {
		w.frame.StrokeColor = frameColor
		w.frame.StrokeWidth = 1
	}
	if w.play != nil {
		w.play.SetText(w.view.PlayLabel())
	}
	w.frame.Refresh()
}

func (w *assetWidget) destroy() {
	if w.stop != nil {
		w.stop()
	}
	if w.player != nil {
		_ = w.player.Pause()
		w.anim.Stop()
	}
	if w.release != nil {
		w.release()
	}
}

func (w *assetWidget) CreateRenderer() fyne.WidgetRenderer {
	var objs []fyne.CanvasObject
	if w.video != nil {
		objs = append(objs, w.video, w.clock)
	} else {
		objs = append(objs, w.img)
	}
	objs = append(objs, w.broken, w.frame, w.del)
	if w.play != nil {
		objs = append(objs, w.play)
	}
	objs = append(objs, w.handle)
	return &assetRenderer{w: w, objects: objs}
}

type assetRenderer struct {
	w       *assetWidget
	objects []fyne.CanvasObject
}

func (r *assetRenderer) Layout(size fyne.Size) {
	w := r.w
	full := func(o fyne.CanvasObject) {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if w.video != nil {
		full(w.video)
		cs := w.clock.MinSize()
		w.clock.Move(fyne.NewPos((size.Width-cs.Width)/2, (size.Height-cs.Height)/2))
		w.clock.Resize(cs)
	} else {
		full(w.img)
	}
	full(w.broken)
	full(w.frame)

	pad := theme.Padding()
	ds := w.del.MinSize()
	w.del.Resize(ds)
	w.del.Move(fyne.NewPos(size.Width-ds.Width-pad, pad))
	if w.play != nil {
		ps := w.play.MinSize()
		w.play.Resize(ps)
		w.play.Move(fyne.NewPos(pad, size.Height-ps.Height-pad))
	}
	w.handle.Resize(fyne.NewSize(handleSize, handleSize))
	w.handle.Move(fyne.NewPos(size.Width-handleSize, size.Height-handleSize))
}

func (r *assetRenderer) MinSize() fyne.Size           { return fyne.NewSize(1, 1) }
func (r *assetRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *assetRenderer) Destroy()                     {}
func (r *assetRenderer) Refresh() {
	r.Layout(r.w.Size())
	canvas.Refresh(r.w)
}

// resizeHandle turns horizontal drags into width changes.
type resizeHandle struct {
	widget.BaseWidget
	view *editor.AssetView
	rect *canvas.Rectangle
}

func newResizeHandle(view *editor.AssetView) *resizeHandle {
	h := &resizeHandle{view: view, rect: canvas.NewRectangle(handleColor)}
	h.ExtendBaseWidget(h)
	return h
}

func (h *resizeHandle) Dragged(e *fyne.DragEvent) { h.view.ResizeBy(float64(e.Dragged.DX)) }
func (h *resizeHandle) DragEnd()                  {}
func (h *resizeHandle) Cursor() desktop.Cursor    { return desktop.HResizeCursor }

func (h *resizeHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.rect)
}

func formatClock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
