package export

import (
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/net/html"
)

// BlockKind classifies a renderable unit extracted from the HTML fragment.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockImage
)

type Block struct {
	Kind  BlockKind
	Text  string
	Level int // heading level 1..6
	// Image box in px; zero values are replaced by the fallback box.
	Width  int
	Height int
}

// ExtractBlocks walks the HTML fragment and flattens it into paragraphs,
// headings and image placeholders. Everything else (styling, nesting) is
// collapsed; the exporter only cares about flowable content.
func ExtractBlocks(fragment string) ([]Block, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []Block
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				text := collapseText(n)
				if text != "" {
					blocks = append(blocks, Block{Kind: BlockHeading, Text: text, Level: int(n.Data[1] - '0')})
				}
				return
			case "p", "li", "blockquote", "pre", "td":
				text := collapseText(n)
				if text != "" {
					blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
				}
				// still descend for nested images
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if hasElement(c, "img") {
						walk(c)
					}
				}
				return
			case "img":
				w := intAttr(n, "width")
				h := intAttr(n, "height")
				if w <= 0 || h <= 0 {
					w, h = FallbackImageWidth, FallbackImageHeight
				}
				blocks = append(blocks, Block{Kind: BlockImage, Width: w, Height: h})
				return
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(collapseWhitespace(n.Data))
			if text != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks, nil
}

func hasElement(n *html.Node, name string) bool {
	if n.Type == html.ElementNode && n.Data == name {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasElement(c, name) {
			return true
		}
	}
	return false
}

func collapseText(n *html.Node) string {
	var sb strings.Builder
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteString(" ")
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return strings.TrimSpace(collapseWhitespace(sb.String()))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func intAttr(n *html.Node, key string) int {
	for _, a := range n.Attr {
		if a.Key == key {
			v := 0
			fmt.Sscanf(a.Val, "%d", &v)
			return v
		}
	}
	return 0
}

const (
	marginPx       = 40 * Scale
	bodyFontSize   = 14.0 * Scale
	lineSpacing    = 1.5
	blockSpacingPx = 10 * Scale
)

func headingFontSize(level int) float64 {
	switch level {
	case 1:
		return 26.0 * Scale
	case 2:
		return 22.0 * Scale
	case 3:
		return 18.0 * Scale
	default:
		return 16.0 * Scale
	}
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// RenderCanvas lays the blocks out on one tall canvas at the fixed A4
// pixel width. Two passes: measure wrapped line counts to size the
// context, then draw.
func RenderCanvas(blocks []Block) (image.Image, error) {
	maxTextWidth := float64(PageWidthPx - 2*marginPx)

	measure := gg.NewContext(PageWidthPx, 1)
	height := marginPx
	for _, b := range blocks {
		switch b.Kind {
		case BlockImage:
			height += imageBoxHeight(b) + blockSpacingPx
		default:
			size := bodyFontSize
			if b.Kind == BlockHeading {
				size = headingFontSize(b.Level)
			}
			face, ferr := faceFor(b, size)
			if ferr != nil {
				return nil, ferr
			}
			measure.SetFontFace(face)
			lines := measure.WordWrap(b.Text, maxTextWidth)
			height += int(float64(len(lines))*size*lineSpacing) + blockSpacingPx
		}
	}
	height += marginPx
	if height <= 0 {
		height = marginPx * 2
	}

	dc := gg.NewContext(PageWidthPx, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	y := float64(marginPx)
	for _, b := range blocks {
		switch b.Kind {
		case BlockImage:
			boxH := float64(imageBoxHeight(b))
			boxW := float64(b.Width * Scale)
			if boxW > maxTextWidth {
				boxW = maxTextWidth
			}
			dc.SetRGB(0.9, 0.9, 0.9)
			dc.DrawRectangle(float64(marginPx), y, boxW, boxH)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			y += boxH + blockSpacingPx
		default:
			size := bodyFontSize
			if b.Kind == BlockHeading {
				size = headingFontSize(b.Level)
			}
			face, ferr := faceFor(b, size)
			if ferr != nil {
				return nil, ferr
			}
			dc.SetFontFace(face)
			dc.SetRGB(0.1, 0.1, 0.1)
			lines := dc.WordWrap(b.Text, maxTextWidth)
			for _, line := range lines {
				y += size * lineSpacing
				dc.DrawString(line, float64(marginPx), y)
			}
			y += blockSpacingPx
		}
	}

	return dc.Image(), nil
}

func faceFor(b Block, size float64) (font.Face, error) {
	if b.Kind == BlockHeading {
		return newFace(gobold.TTF, size)
	}
	return newFace(goregular.TTF, size)
}

func imageBoxHeight(b Block) int {
	h := b.Height * Scale
	if h <= 0 {
		h = FallbackImageHeight * Scale
	}
	return h
}
