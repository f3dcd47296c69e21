package media

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/templui/darkroom/internal/model"
)

// exifLayout is the fixed EXIF timestamp format.
const exifLayout = "2006:01:02 15:04:05"

var ErrNoCaptureDate = errors.New("no capture date in metadata")

// captureDateTags in priority order: original capture, digitization, then
// the generic modification time.
var captureDateTags = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// ExtractCaptureDate reads the capture date from embedded EXIF metadata.
// The wall-clock date recorded by the camera is kept as is, no time zone
// conversion is applied. Missing or unreadable metadata is reported as
// Unavailable, never as an error.
func ExtractCaptureDate(data []byte) Result[model.Date] {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return Unavailable[model.Date](fmt.Errorf("decode exif: %w", err))
	}

	for _, name := range captureDateTags {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			continue
		}

		raw, err := tag.StringVal()
		if err != nil {
			continue
		}

		t, err := time.Parse(exifLayout, strings.TrimSpace(strings.TrimRight(raw, "\x00")))
		if err != nil {
			continue
		}

		return Available(model.NewDate(t))
	}

	return Unavailable[model.Date](ErrNoCaptureDate)
}

// Orientation returns the EXIF orientation (1-8), 1 when absent.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil {
		return 1
	}

	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}

	return o
}
