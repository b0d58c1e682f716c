//go:build fyne && !cgo

package ui

// Run fails fast: the Fyne driver links OpenGL through cgo.
func Run(_ Options) error {
	return unavailable("Fyne needs cgo for OpenGL", "install a C toolchain and rebuild with CGO_ENABLED=1 go build -tags fyne ./cmd/assetcanvas")
}
