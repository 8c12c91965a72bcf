// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

// ExtractDate finds the first date in title using pattern. Group 1 of the
// pattern is the year, the optional group 2 the month. When nothing matches
// both results are empty.
func ExtractDate(pattern *regexp.Regexp, title string) (year, month string) {
	m := pattern.FindStringSubmatch(title)
	if m == nil || len(m) < 2 {
		return "", ""
	}
	year = m[1]
	if len(m) > 2 {
		month = m[2]
	}
	return year, month
}

// DateFilter decides whether a title matches a requested year and month.
type DateFilter struct {
	pattern *regexp.Regexp
	undated types.UndatedPolicy
}

// NewDateFilter compiles the profile's date pattern.
func NewDateFilter(p types.CatalogProfile) (DateFilter, error) {
	re, err := regexp.Compile(p.DatePattern)
	if err != nil {
		return DateFilter{}, fmt.Errorf("%w %q: date_pattern: %v", ErrInvalidProfile, p.Name, err)
	}
	undated := p.Undated
	if undated == "" {
		undated = types.UndatedReject
	}
	return DateFilter{pattern: re, undated: undated}, nil
}

// Date extracts the year and month from title.
func (f DateFilter) Date(title string) (year, month string) {
	return ExtractDate(f.pattern, title)
}

// Match reports whether title satisfies the filters. Empty targets mean no
// filter. An undated title only passes when no filter is set and the policy
// is UndatedInclude.
func (f DateFilter) Match(title, targetYear, targetMonth string) bool {
	year, month := f.Date(title)
	if year == "" {
		return targetYear == "" && targetMonth == "" && f.undated == types.UndatedInclude
	}
	if targetYear != "" && year != targetYear {
		return false
	}
	if targetMonth != "" && month != targetMonth {
		return false
	}
	return true
}

// Apply returns the items matching targetYear and targetMonth, in order,
// with their extracted date attached.
func (f DateFilter) Apply(items []types.CatalogItem, targetYear, targetMonth string, log logger.Logger) []types.CatalogItem {
	var out []types.CatalogItem
	for _, item := range items {
		year, month := f.Date(item.Title())
		log.Debug("extracted date",
			logger.String("title", item.Title()),
			logger.String("year", year),
			logger.String("month", month))

		if !f.Match(item.Title(), targetYear, targetMonth) {
			log.Debug("skipped, date does not match", logger.String("title", item.Title()))
			continue
		}
		out = append(out, item.WithDate(year, month))
		log.Info("added item to downloads", logger.String("title", item.Title()))
	}
	return out
}
