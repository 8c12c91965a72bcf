// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog turns rendered document-tree markup into catalog items and
// decides which of them match a requested year and month. Catalog-specific
// selectors and patterns come from a types.CatalogProfile.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

// Parse finds every tree item in html and extracts its edition id and title.
// Items missing the content link, the edition id or the title are logged and
// skipped. Items are returned in document order.
func Parse(html string, p types.CatalogProfile, log logger.Logger) ([]types.CatalogItem, error) {
	edition, err := regexp.Compile(p.EditionPattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: edition_pattern: %v", ErrInvalidProfile, p.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog markup: %w", err)
	}

	nodes := doc.Find(p.ItemSelector())
	total := nodes.Length()
	log.Info("found tree items", logger.Int("count", total), logger.String("selector", p.ItemSelector()))

	items := make([]types.CatalogItem, 0, total)
	nodes.Each(func(i int, s *goquery.Selection) {
		idx := i + 1
		log.Debug("processing item", logger.Int("item", idx), logger.Int("total", total))

		link := contentLink(s, p.ContentLabel)
		if link == nil {
			log.Warn("no content link found", logger.Int("item", idx))
			return
		}
		href, _ := link.Attr("href")
		log.Debug("found href", logger.String("href", href))

		m := edition.FindStringSubmatch(href)
		if len(m) < 2 || m[1] == "" {
			log.Warn("no edition id found in href", logger.Int("item", idx), logger.String("href", href))
			return
		}
		id := m[1]

		title := strings.TrimSpace(s.Find("a." + p.TitleClass).First().Text())
		if title == "" {
			log.Warn("no title link found", logger.Int("item", idx), logger.String("edition_id", id))
			return
		}

		item, err := types.NewCatalogItem(title, id)
		if err != nil {
			log.Warn("skipping item", logger.Int("item", idx), logger.Error(err))
			return
		}
		items = append(items, item)
	})
	return items, nil
}

// SampleTitles returns the titles of the first n tree items, regardless of
// whether they parse completely. Used to explain an empty match.
func SampleTitles(html string, p types.CatalogProfile, n int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var titles []string
	doc.Find(p.ItemSelector()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(titles) >= n {
			return false
		}
		if t := strings.TrimSpace(s.Find("a." + p.TitleClass).First().Text()); t != "" {
			titles = append(titles, t)
		}
		return true
	})
	return titles
}

// contentLink returns the first anchor in s whose aria-label equals label.
func contentLink(s *goquery.Selection, label string) *goquery.Selection {
	link := s.Find("a[aria-label]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		v, _ := a.Attr("aria-label")
		return strings.TrimSpace(v) == label
	}).First()
	if link.Length() == 0 {
		return nil
	}
	return link
}
