package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 1280
	canvasHeight = 720
	jpegQuality  = 92

	posterHeightRatio = 0.82
	posterMarginX     = 60
	posterRadius      = 12

	watermarkFontSize   = 26
	placeholderFontSize = 24
	watermarkMargin     = 14
	pillRadius          = 8
)

// Compositor renders post cards. It is safe for concurrent use once built.
type Compositor struct {
	watermarkFace   font.Face
	placeholderFace font.Face
}

// NewCompositor parses the embedded typeface and prepares the render faces.
func NewCompositor() (*Compositor, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse typeface: %w", err)
	}
	watermarkFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: watermarkFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build watermark face: %w", err)
	}
	placeholderFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: placeholderFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build placeholder face: %w", err)
	}
	return &Compositor{watermarkFace: watermarkFace, placeholderFace: placeholderFace}, nil
}

// Compose builds the full card layout. posterData and backdropData may be nil
// or undecodable; the poster then degrades to the placeholder panel and the
// backdrop falls back to the poster.
func (c *Compositor) Compose(posterData, backdropData []byte, watermark string) ([]byte, error) {
	poster := decodeOr(posterData, nil)
	if poster == nil {
		poster = c.placeholder()
	}
	backdrop := decodeOr(backdropData, poster)

	canvas := image.NewNRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.NRGBA{15, 15, 20, 255}), image.Point{}, draw.Src)

	// Blurred, darkened backdrop stretched to fill.
	bg := imaging.Resize(backdrop, canvasWidth, canvasHeight, imaging.Lanczos)
	bg = imaging.Blur(bg, 18)
	bg = imaging.AdjustFunc(bg, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{scale(c.R, 0.45), scale(c.G, 0.45), scale(c.B, 0.45), c.A}
	})
	draw.Draw(canvas, canvas.Bounds(), bg, image.Point{}, draw.Over)

	drawGradient(canvas)

	posterHF := float64(canvasHeight) * posterHeightRatio
	posterH := int(posterHF)
	posterW := posterH * 2 / 3
	posterX := posterMarginX
	posterY := (canvasHeight - posterH) / 2

	drawShadow(canvas, posterX, posterY, posterW, posterH)

	resized := imaging.Resize(poster, posterW, posterH, imaging.Lanczos)
	mask := roundedMask(posterW, posterH, posterRadius)
	target := image.Rect(posterX, posterY, posterX+posterW, posterY+posterH)
	draw.DrawMask(canvas, target, resized, image.Point{}, mask, image.Point{}, draw.Over)

	drawAccentLine(canvas, posterX+posterW+20, posterY+10, posterY+posterH-10)

	if watermark != "" {
		c.drawWatermark(canvas, watermark)
	}

	return encodeJPEG(canvas)
}

// Recompose scales a user-supplied image to the canvas and applies only the
// watermark. An undecodable image degrades to the placeholder panel.
func (c *Compositor) Recompose(imageData []byte, watermark string) ([]byte, error) {
	src := decodeOr(imageData, nil)
	if src == nil {
		src = c.placeholder()
	}

	canvas := imaging.Resize(src, canvasWidth, canvasHeight, imaging.Lanczos)
	if watermark != "" {
		c.drawWatermark(canvas, watermark)
	}
	return encodeJPEG(canvas)
}

func decodeOr(data []byte, fallback image.Image) image.Image {
	if len(data) == 0 {
		return fallback
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fallback
	}
	return img
}

// placeholder is the 400x600 "No Image" panel substituted for a missing
// poster.
func (c *Compositor) placeholder() image.Image {
	panel := image.NewNRGBA(image.Rect(0, 0, 400, 600))
	draw.Draw(panel, panel.Bounds(), image.NewUniform(color.NRGBA{30, 30, 40, 255}), image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  panel,
		Src:  image.NewUniform(color.NRGBA{200, 200, 200, 255}),
		Face: c.placeholderFace,
		Dot:  fixed.P(20, 280+c.placeholderFace.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString("No Image")
	return panel
}

// drawGradient darkens the canvas left-to-right, alpha 80 rising to 200, so
// the caption side stays legible over bright backdrops.
func drawGradient(canvas *image.NRGBA) {
	bounds := canvas.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		alpha := uint8(80 + (float64(x)/float64(canvasWidth))*120)
		col := image.NewUniform(color.NRGBA{0, 0, 0, alpha})
		draw.Draw(canvas, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), col, image.Point{}, draw.Over)
	}
}

func drawShadow(canvas *image.NRGBA, posterX, posterY, posterW, posterH int) {
	shadow := image.NewNRGBA(image.Rect(0, 0, posterW+20, posterH+20))
	draw.Draw(shadow, shadow.Bounds(), image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Src)
	blurred := imaging.Blur(shadow, 10)

	target := image.Rect(posterX-5, posterY+5, posterX-5+posterW+20, posterY+5+posterH+20)
	draw.Draw(canvas, target, blurred, image.Point{}, draw.Over)
}

func drawAccentLine(canvas *image.NRGBA, x, yTop, yBottom int) {
	col := image.NewUniform(color.NRGBA{255, 200, 50, 180})
	draw.Draw(canvas, image.Rect(x-1, yTop, x+2, yBottom), col, image.Point{}, draw.Over)
}

func (c *Compositor) drawWatermark(canvas *image.NRGBA, text string) {
	drawer := font.Drawer{Face: c.watermarkFace}
	textW := drawer.MeasureString(text).Ceil()
	metrics := c.watermarkFace.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	pillW := textW + watermarkMargin*2
	pillH := textH + watermarkMargin*2
	x := canvasWidth - pillW - 10
	y := canvasHeight - pillH - 10

	pill := roundedMask(pillW, pillH, pillRadius)
	fill := image.NewUniform(color.NRGBA{0, 0, 0, 160})
	target := image.Rect(x, y, x+pillW, y+pillH)
	draw.DrawMask(canvas, target, fill, image.Point{}, pill, image.Point{}, draw.Over)

	drawer = font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 230}),
		Face: c.watermarkFace,
		Dot:  fixed.P(x+watermarkMargin, y+watermarkMargin+metrics.Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

// roundedMask builds an alpha mask for a w x h rounded rectangle.
func roundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r2 := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := 0, 0
			if x < radius && y < radius {
				dx, dy = radius-1-x, radius-1-y
			} else if x >= w-radius && y < radius {
				dx, dy = x-(w-radius), radius-1-y
			} else if x < radius && y >= h-radius {
				dx, dy = radius-1-x, y-(h-radius)
			} else if x >= w-radius && y >= h-radius {
				dx, dy = x-(w-radius), y-(h-radius)
			}
			if dx*dx+dy*dy <= r2 {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}

func scale(v uint8, factor float64) uint8 {
	return uint8(float64(v) * factor)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}
