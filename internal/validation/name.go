package validation

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValidateAlbumName validates an album name
func ValidateAlbumName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("album name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("album name is too long (max 100 characters)")
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

const maxFilenameBase = 100

// SanitizeFilename splits an uploaded file name into a path-safe base and a
// lower-cased extension. Accents are folded to ASCII first, every other
// character outside [A-Za-z0-9_-] becomes an underscore.
func SanitizeFilename(name string) (base, ext string) {
	// Browsers on Windows may send the full client path.
	name = name[strings.LastIndexAny(name, `/\`)+1:]

	ext = strings.ToLower(filepath.Ext(name))
	base = strings.TrimSuffix(name, filepath.Ext(name))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, base)
	if err == nil {
		base = folded
	}

	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if len(base) > maxFilenameBase {
		base = base[:maxFilenameBase]
	}
	if base == "" {
		base = "image"
	}

	ext = "." + unsafeFilenameChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if ext == "." {
		ext = ""
	}

	return base, ext
}
