package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		name       string
		height     int
		pageHeight int
		want       int
	}{
		{name: "exact_fit_is_one_page", height: 1000, pageHeight: 1000, want: 1},
		{name: "one_pixel_over_spills", height: 1001, pageHeight: 1000, want: 2},
		{name: "shorter_than_page", height: 300, pageHeight: 1000, want: 1},
		{name: "multiple_pages", height: 2500, pageHeight: 1000, want: 3},
		{name: "zero_height_still_one_page", height: 0, pageHeight: 1000, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PageCount(tc.height, tc.pageHeight); got != tc.want {
				t.Fatalf("PageCount(%d, %d) = %d, want %d", tc.height, tc.pageHeight, got, tc.want)
			}
		})
	}
}

func TestSlicePagesDimensionsAndPadding(t *testing.T) {
	const width, height, pageHeight = 100, 250, 100
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	pages := SlicePages(src, pageHeight)
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		b := p.Bounds()
		if b.Dx() != width || b.Dy() != pageHeight {
			t.Fatalf("page %d is %dx%d, want %dx%d", i, b.Dx(), b.Dy(), width, pageHeight)
		}
	}

	// The last page holds 50px of content above white padding.
	last := pages[2]
	if r, _, _, _ := last.At(10, 10).RGBA(); r == 0 {
		t.Fatalf("content band of last page is empty")
	}
	r, g, b, _ := last.At(10, 80).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("padding below content should be white, got (%d,%d,%d)", r, g, b)
	}
}

func TestExtractBlocks(t *testing.T) {
	fragment := `<h1>Kinematics</h1><p>Motion in a straight   line.</p><img src="x.png" width="0" height="0"><p></p>`
	blocks, err := ExtractBlocks(fragment)
	if err != nil {
		t.Fatalf("ExtractBlocks failed: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != BlockHeading || blocks[0].Level != 1 || blocks[0].Text != "Kinematics" {
		t.Fatalf("heading block wrong: %+v", blocks[0])
	}
	if blocks[1].Kind != BlockParagraph || blocks[1].Text != "Motion in a straight line." {
		t.Fatalf("paragraph whitespace not collapsed: %+v", blocks[1])
	}
	if blocks[2].Kind != BlockImage {
		t.Fatalf("expected image block, got %+v", blocks[2])
	}
	if blocks[2].Width != FallbackImageWidth || blocks[2].Height != FallbackImageHeight {
		t.Fatalf("zero-sized image not resized to fallback box: %+v", blocks[2])
	}
}

func TestRenderHTMLToPDFIsDeterministic(t *testing.T) {
	fragment := "<h2>Chapter 1</h2><p>Some short content.</p>"

	first, pagesA, err := RenderHTMLToPDF(fragment)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	second, pagesB, err := RenderHTMLToPDF(fragment)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if pagesA != 1 || pagesB != 1 {
		t.Fatalf("short content should fit one page, got %d and %d", pagesA, pagesB)
	}
	if len(first) == 0 {
		t.Fatalf("empty pdf output")
	}
	if !bytes.HasPrefix(first, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("same fragment produced different pdf bytes")
	}
}

func TestRenderCanvasGrowsWithContent(t *testing.T) {
	short, err := RenderCanvas([]Block{{Kind: BlockParagraph, Text: "one line"}})
	if err != nil {
		t.Fatalf("render short: %v", err)
	}
	var blocks []Block
	for i := 0; i < 200; i++ {
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: "a reasonably long paragraph of repeated content for height measurement"})
	}
	long, err := RenderCanvas(blocks)
	if err != nil {
		t.Fatalf("render long: %v", err)
	}

	if long.Bounds().Dy() <= short.Bounds().Dy() {
		t.Fatalf("long content did not grow the canvas: %d <= %d", long.Bounds().Dy(), short.Bounds().Dy())
	}
	if short.Bounds().Dx() != PageWidthPx || long.Bounds().Dx() != PageWidthPx {
		t.Fatalf("canvas width must be fixed at %d", PageWidthPx)
	}
	if PageCount(long.Bounds().Dy(), PageHeightPx) < 2 {
		t.Fatalf("200 paragraphs should spill past one page")
	}
}
