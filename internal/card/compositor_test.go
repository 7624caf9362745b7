package card_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"marquee/internal/card"
)

func encodePNG(t *testing.T, w, h int, fill color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func newCompositor(t *testing.T) *card.Compositor {
	t.Helper()
	c, err := card.NewCompositor()
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	return c
}

func TestComposeProducesFixedCanvas(t *testing.T) {
	c := newCompositor(t)
	poster := encodePNG(t, 300, 450, color.NRGBA{90, 20, 20, 255})
	backdrop := encodePNG(t, 1920, 1080, color.NRGBA{20, 20, 90, 255})

	out, err := c.Compose(poster, backdrop, "@marquee")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	img := decodeJPEG(t, out)
	if got := img.Bounds().Size(); got.X != 1280 || got.Y != 720 {
		t.Fatalf("expected 1280x720, got %v", got)
	}
}

func TestComposeDegradesToPlaceholder(t *testing.T) {
	c := newCompositor(t)

	tests := []struct {
		name   string
		poster []byte
	}{
		{"nil poster", nil},
		{"undecodable poster", []byte("not an image")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := c.Compose(tc.poster, nil, "")
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			img := decodeJPEG(t, out)
			if got := img.Bounds().Size(); got.X != 1280 || got.Y != 720 {
				t.Fatalf("expected 1280x720, got %v", got)
			}
		})
	}
}

func TestRecomposeScalesAnyAspect(t *testing.T) {
	c := newCompositor(t)

	for _, dims := range [][2]int{{100, 100}, {3000, 500}, {720, 1280}} {
		src := encodePNG(t, dims[0], dims[1], color.NRGBA{40, 120, 60, 255})
		out, err := c.Recompose(src, "@marquee")
		if err != nil {
			t.Fatalf("Recompose %v: %v", dims, err)
		}
		img := decodeJPEG(t, out)
		if got := img.Bounds().Size(); got.X != 1280 || got.Y != 720 {
			t.Fatalf("dims %v: expected 1280x720, got %v", dims, got)
		}
	}
}

func TestRecomposeUndecodableImageDegrades(t *testing.T) {
	c := newCompositor(t)
	out, err := c.Recompose([]byte{0x00, 0x01}, "")
	if err != nil {
		t.Fatalf("Recompose: %v", err)
	}
	img := decodeJPEG(t, out)
	if got := img.Bounds().Size(); got.X != 1280 || got.Y != 720 {
		t.Fatalf("expected 1280x720, got %v", got)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := newCompositor(t)
	poster := encodePNG(t, 300, 450, color.NRGBA{90, 20, 20, 255})

	first, err := c.Compose(poster, nil, "@marquee")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	second, err := c.Compose(poster, nil, "@marquee")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical inputs produced different cards")
	}
}
