// Package snapshot turns raw satellite imagery into annotated dig site
// snapshots and bundles them for download.
package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Annotation drawing constants, in pixels
const (
	markerRadius  = 6
	labelOffsetX  = 12
	labelPadding  = 6
	edgeMargin    = 6
	outlineStroke = 1.5
)

// Annotate draws a site marker and an uppercased name label onto a satellite
// image. The marker sits at the image center, where the static imagery API
// places the requested coordinate. Returns the annotated image as JPEG.
func Annotate(imageData []byte, label string) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())
	cx := width / 2
	cy := height / 2

	dc := gg.NewContextForImage(src)
	dc.SetFontFace(basicfont.Face7x13)

	// Center marker: yellow dot with a black outline
	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(cx, cy, markerRadius+outlineStroke)
	dc.Fill()
	dc.SetRGB(1, 1, 0)
	dc.DrawCircle(cx, cy, markerRadius)
	dc.Fill()

	text := strings.ToUpper(strings.TrimSpace(label))
	if text != "" {
		drawLabel(dc, text, cx, cy, width, height)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}

// drawLabel places the label beside the marker, clamped so the text box never
// runs off the image edge
func drawLabel(dc *gg.Context, text string, cx, cy, width, height float64) {
	tw, th := dc.MeasureString(text)

	x := clamp(cx+labelOffsetX, edgeMargin, width-tw-labelOffsetX)
	y := clamp(cy-th-edgeMargin, edgeMargin, height-th-labelOffsetX)

	// White box behind the text, outlined in black
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(x-labelPadding, y-labelPadding, tw+2*labelPadding, th+2*labelPadding)
	dc.Fill()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(outlineStroke)
	dc.DrawRectangle(x-labelPadding, y-labelPadding, tw+2*labelPadding, th+2*labelPadding)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawString(text, x, y+th)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
