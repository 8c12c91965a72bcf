// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout decides where a catalog item is stored on disk: the
// year/month directory scheme, the filename derived from the title and the
// file extension.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const (
	unknownMonthDir = "unknown_month"
	unknownDateDir  = "unknown_date"
)

// forbidden lists the characters that never appear in a generated filename.
const forbidden = `<>:"/\|?*`

var sanitizer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(forbidden))
	for _, r := range forbidden {
		pairs = append(pairs, string(r), "_")
	}
	return strings.NewReplacer(pairs...)
}()

// Dir returns the directory for item under base: base/YYYY/MM when both date
// parts are known, base/YYYY/unknown_month when only the year is, and
// base/unknown_date otherwise.
func Dir(base string, item types.CatalogItem) string {
	switch {
	case item.Year() != "" && item.Month() != "":
		return filepath.Join(base, item.Year(), item.Month())
	case item.Year() != "":
		return filepath.Join(base, item.Year(), unknownMonthDir)
	default:
		return filepath.Join(base, unknownDateDir)
	}
}

// EnsureDir creates dir and its parents. Existing directories are fine.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Sanitize replaces every character of <>:"/\|?* in title with an underscore.
// Applying it twice yields the same result as applying it once.
func Sanitize(title string) string {
	return sanitizer.Replace(title)
}

// Filename builds "<sanitized title>.<sanitized ext>". A leading dot on ext
// is ignored.
func Filename(title, ext string) string {
	ext = Sanitize(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return Sanitize(title)
	}
	return Sanitize(title) + "." + ext
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
