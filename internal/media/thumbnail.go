package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// decoders for the accepted upload formats
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultThumbWidth   = 360
	DefaultThumbHeight  = 240
	DefaultThumbQuality = 75
)

// Thumbnailer renders a thumbnail from the bytes of an original.
type Thumbnailer interface {
	Thumbnail(src []byte) ([]byte, error)
}

// Generator produces fixed-size JPEG thumbnails. The original is turned
// upright from its EXIF orientation, then scaled to cover the target box and
// centre-cropped, so the result is always exactly Width x Height.
type Generator struct {
	Width   int
	Height  int
	Quality int
}

func NewGenerator(width, height, quality int) *Generator {
	if width <= 0 {
		width = DefaultThumbWidth
	}
	if height <= 0 {
		height = DefaultThumbHeight
	}
	if quality < 1 || quality > 100 {
		quality = DefaultThumbQuality
	}
	return &Generator{Width: width, Height: height, Quality: quality}
}

func (g *Generator) Thumbnail(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = orient(img, Orientation(src))
	dst := cover(img, g.Width, g.Height)

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: g.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// cover scales src to fill a width x height box, cropping the overflow
// evenly from both sides. Transparent areas end up on white.
func cover(src image.Image, width, height int) *image.RGBA {
	b := src.Bounds()
	crop := b
	sw, sh := b.Dx(), b.Dy()

	if sw*height > sh*width {
		// wider than the box
		cw := max(sh*width/height, 1)
		crop.Min.X = b.Min.X + (sw-cw)/2
		crop.Max.X = crop.Min.X + cw
	} else {
		ch := max(sw*height/width, 1)
		crop.Min.Y = b.Min.Y + (sh-ch)/2
		crop.Max.Y = crop.Min.Y + ch
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	return dst
}

// orient returns src transformed so that it displays upright for the given
// EXIF orientation. Orientations 5-8 swap width and height.
func orient(src image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for dy := 0; dy < dh; dy++ {
		for dx := 0; dx < dw; dx++ {
			var sx, sy int
			switch orientation {
			case 2: // mirror horizontal
				sx, sy = w-1-dx, dy
			case 3: // rotate 180
				sx, sy = w-1-dx, h-1-dy
			case 4: // mirror vertical
				sx, sy = dx, h-1-dy
			case 5: // transpose
				sx, sy = dy, dx
			case 6: // rotate 90 clockwise
				sx, sy = dy, h-1-dx
			case 7: // transverse
				sx, sy = w-1-dy, h-1-dx
			case 8: // rotate 270 clockwise
				sx, sy = w-1-dy, dx
			}
			dst.Set(dx, dy, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}

	return dst
}
