package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints defines validation rules for gallery uploads.
// MaxSize is filled in from MAX_UPLOAD_MB by WithMaxSize.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
		"image/tiff": true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".tif":  true,
		".tiff": true,
	},
	MaxSize: 20 << 20, // 20MB
}

// WithMaxSize returns a copy of c with a different size limit.
func (c FileConstraints) WithMaxSize(maxSize int64) FileConstraints {
	c.MaxSize = maxSize
	return c
}

// ValidateFile validates an upload against one or more constraint sets.
// If multiple constraints are provided, file must match at least one.
func ValidateFile(filename string, data []byte, constraints ...FileConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no file constraints provided")
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(filename, data, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

func validateAgainstConstraint(filename string, data []byte, constraints FileConstraints) error {
	if int64(len(data)) > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	// Detect the type from magic numbers, the client's Content-Type is ignored.
	detectedType := DetectContentType(data)
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}

// DetectContentType extends http.DetectContentType with TIFF, which the
// standard sniffer reports as application/octet-stream.
func DetectContentType(data []byte) string {
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff"
	}
	return http.DetectContentType(data)
}
