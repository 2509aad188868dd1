package export

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Fixed layout constants: A4 at 96dpi, rastered at 2x.
const (
	Scale        = 2
	PageWidthPx  = 794 * Scale
	PageHeightPx = 1123 * Scale

	pageWidthMM  = 210.0
	pageHeightMM = 297.0

	jpegQuality = 80

	// Zero-sized embedded images are resized to this box to avoid
	// degenerate zero-area renders.
	FallbackImageWidth  = 320
	FallbackImageHeight = 240
)

// PageCount is ceil(canvasHeight / pageHeight). Content shorter than one
// page still occupies a single page.
func PageCount(canvasHeight, pageHeight int) int {
	if canvasHeight <= 0 || pageHeight <= 0 {
		return 1
	}
	return (canvasHeight + pageHeight - 1) / pageHeight
}

// SlicePages cuts the tall source canvas into pageHeight-tall horizontal
// bands, each copied onto a fresh white-backed canvas. The last band is
// padded with white below the content; short content lands at the top of
// a mostly blank page with no special casing.
func SlicePages(canvas image.Image, pageHeight int) []*image.RGBA {
	bounds := canvas.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	total := PageCount(height, pageHeight)

	pages := make([]*image.RGBA, 0, total)
	for page := 0; page < total; page++ {
		dst := image.NewRGBA(image.Rect(0, 0, width, pageHeight))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		srcY := bounds.Min.Y + page*pageHeight
		draw.Draw(dst, image.Rect(0, 0, width, pageHeight), canvas, image.Point{X: bounds.Min.X, Y: srcY}, draw.Over)
		pages = append(pages, dst)
	}
	return pages
}
