package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/templui/darkroom/internal/model"
	"golang.org/x/image/tiff"
)

// withExifDate returns a JPEG carrying an APP1 segment whose Exif sub-IFD
// holds DateTimeOriginal = value.
func withExifDate(t *testing.T, value string) []byte {
	t.Helper()

	le := binary.LittleEndian
	tiff := make([]byte, 64)
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], 8)

	// IFD0: one entry pointing at the Exif sub-IFD
	le.PutUint16(tiff[8:], 1)
	le.PutUint16(tiff[10:], 0x8769)
	le.PutUint16(tiff[12:], 4) // LONG
	le.PutUint32(tiff[14:], 1)
	le.PutUint32(tiff[18:], 26)
	le.PutUint32(tiff[22:], 0)

	// Exif sub-IFD: DateTimeOriginal
	le.PutUint16(tiff[26:], 1)
	le.PutUint16(tiff[28:], 0x9003)
	le.PutUint16(tiff[30:], 2) // ASCII
	le.PutUint32(tiff[32:], 20)
	le.PutUint32(tiff[36:], 44)
	le.PutUint32(tiff[40:], 0)

	copy(tiff[44:], value)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	plain := encodeJPEG(t, image.NewRGBA(image.Rect(0, 0, 8, 8)))

	out := append([]byte{}, plain[:2]...)
	out = append(out, segment...)
	return append(out, plain[2:]...)
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestExtractCaptureDate(t *testing.T) {
	data := withExifDate(t, "2020:01:01 10:11:12")

	res := ExtractCaptureDate(data)
	if !res.Ok() {
		t.Fatalf("expected a date, got reason %v", res.Reason)
	}

	want := model.Date{Year: 2020, Month: 1, Day: 1}
	if res.Value != want {
		t.Errorf("got %v, want %v", res.Value, want)
	}
}

func TestExtractCaptureDateUnavailable(t *testing.T) {
	tests := map[string][]byte{
		"no exif":      encodeJPEG(t, image.NewRGBA(image.Rect(0, 0, 4, 4))),
		"garbage":      []byte("definitely not an image"),
		"empty":        nil,
		"bad datetime": withExifDate(t, "not a real datetime"),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			res := ExtractCaptureDate(data)
			if res.Ok() {
				t.Errorf("expected unavailable, got %v", res.Value)
			}
		})
	}
}

func TestThumbnailCoverFit(t *testing.T) {
	g := NewGenerator(0, 0, 0)

	sizes := []image.Rectangle{
		image.Rect(0, 0, 1200, 400), // wide
		image.Rect(0, 0, 300, 900),  // tall
		image.Rect(0, 0, 90, 60),    // smaller than the box
	}

	for _, r := range sizes {
		out, err := g.Thumbnail(encodeJPEG(t, image.NewRGBA(r)))
		if err != nil {
			t.Fatalf("thumbnail %v: %v", r, err)
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode thumbnail: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format = %s, want jpeg", format)
		}
		if cfg.Width != DefaultThumbWidth || cfg.Height != DefaultThumbHeight {
			t.Errorf("source %v: got %dx%d, want %dx%d", r, cfg.Width, cfg.Height, DefaultThumbWidth, DefaultThumbHeight)
		}
	}
}

func TestThumbnailFromPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 50, 50))); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	out, err := NewGenerator(40, 20, 90).Thumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("got %v, want 40x20", img.Bounds())
	}

	// fully transparent source is flattened onto white
	r, g, b, _ := img.At(20, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected white background, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestThumbnailFromTIFF(t *testing.T) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 20)), nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}

	out, err := NewGenerator(12, 8, 90).Thumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" || cfg.Width != 12 || cfg.Height != 8 {
		t.Errorf("got %s %dx%d, want jpeg 12x8", format, cfg.Width, cfg.Height)
	}
}

// Sources one pixel across still fill the box instead of leaving it blank.
func TestThumbnailSlivers(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 1, 100),
		image.Rect(0, 0, 500, 1),
	} {
		src := image.NewRGBA(r)
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				src.Set(x, y, red)
			}
		}

		dst := cover(src, 36, 24)
		if got := dst.RGBAAt(18, 12); got.R < 200 || got.G > 60 || got.B > 60 {
			t.Errorf("source %v: centre pixel = %v, want red", r, got)
		}
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := NewGenerator(0, 0, 0).Thumbnail([]byte("nope"))
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestOrient(t *testing.T) {
	// 3x2 source with a red marker at the top-left corner
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	red := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, red)

	tests := []struct {
		orientation int
		w, h        int
		marker      image.Point
	}{
		{1, 3, 2, image.Pt(0, 0)},
		{2, 3, 2, image.Pt(2, 0)},
		{3, 3, 2, image.Pt(2, 1)},
		{4, 3, 2, image.Pt(0, 1)},
		{5, 2, 3, image.Pt(0, 0)},
		{6, 2, 3, image.Pt(1, 0)},
		{7, 2, 3, image.Pt(1, 2)},
		{8, 2, 3, image.Pt(0, 2)},
	}

	for _, tt := range tests {
		got := orient(src, tt.orientation)
		b := got.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: size %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.w, tt.h)
			continue
		}
		if got.At(tt.marker.X, tt.marker.Y) != color.Color(red) {
			t.Errorf("orientation %d: marker not at %v", tt.orientation, tt.marker)
		}
	}
}
