// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidItem is returned when a catalog item cannot be constructed from
// the values scraped off the page.
var ErrInvalidItem = errors.New("invalid catalog item")

// CatalogItem is one publication entry found in a rendered catalog tree.
// Values are immutable once built; use NewCatalogItem and WithDate.
type CatalogItem struct {
	title     string
	editionID string
	year      string
	month     string
}

// NewCatalogItem validates and builds a CatalogItem. The title is trimmed and
// must not be empty; the edition id must be a non-empty run of ASCII digits.
func NewCatalogItem(title, editionID string) (CatalogItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return CatalogItem{}, fmt.Errorf("%w: empty title", ErrInvalidItem)
	}
	if !isDigits(editionID) {
		return CatalogItem{}, fmt.Errorf("%w: edition id %q is not numeric", ErrInvalidItem, editionID)
	}
	return CatalogItem{title: title, editionID: editionID}, nil
}

// WithDate returns a copy of the item carrying the given year and month.
// Empty strings mean the part is absent.
func (c CatalogItem) WithDate(year, month string) CatalogItem {
	c.year = year
	c.month = month
	return c
}

// Title is the display title shown in the catalog tree.
func (c CatalogItem) Title() string { return c.title }

// EditionID is the numeric identifier used to build the download URL.
func (c CatalogItem) EditionID() string { return c.editionID }

// Year is the four-digit publication year, or "" when unknown.
func (c CatalogItem) Year() string { return c.year }

// Month is the two-digit publication month, or "" when unknown.
func (c CatalogItem) Month() string { return c.month }

// Dated reports whether a year was extracted for the item.
func (c CatalogItem) Dated() bool { return c.year != "" }

func (c CatalogItem) String() string {
	return fmt.Sprintf("%s (edition %s)", c.title, c.editionID)
}

// DownloadTarget is a CatalogItem resolved to a concrete download: where it
// goes on disk and where it comes from.
type DownloadTarget struct {
	Item CatalogItem

	// Path is the destination file path, including the extension.
	Path string

	// URL is the direct download URL for the edition.
	URL string
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
