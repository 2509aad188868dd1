package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF re-encodes each page band as a compressed JPEG and places one
// image per A4 page.
func BuildPDF(pages []*image.RGBA) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to write")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pinned metadata timestamp: identical content must produce
	// identical bytes.
	pdf.SetCreationDate(time.Unix(0, 0))
	opts := gofpdf.ImageOptions{ImageType: "JPEG"}
	for i, page := range pages {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, pageWidthMM, pageHeightMM, false, opts, 0, "")
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// RenderHTMLToPDF is the full export path: HTML fragment to tall raster
// canvas to fixed-height page bands to a multi-page PDF. Deterministic
// for a given fragment and the fixed layout constants.
func RenderHTMLToPDF(fragment string) ([]byte, int, error) {
	blocks, err := ExtractBlocks(fragment)
	if err != nil {
		return nil, 0, err
	}
	canvas, err := RenderCanvas(blocks)
	if err != nil {
		return nil, 0, err
	}
	pages := SlicePages(canvas, PageHeightPx)
	pdfBytes, err := BuildPDF(pages)
	if err != nil {
		return nil, 0, err
	}
	return pdfBytes, len(pages), nil
}
