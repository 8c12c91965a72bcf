// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire runs a harvest: render the catalog page, extract and filter
// its items, then download each match into the dated directory layout.
// Downloads run one at a time with a short pause between them.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pdiddy/dlibra-harvest/internal/catalog"
	"github.com/pdiddy/dlibra-harvest/internal/layout"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/internal/render"
	"github.com/pdiddy/dlibra-harvest/internal/wget"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const (
	defaultDownloadsDir = "downloads"

	// sampleSize is how many titles are logged when nothing matched.
	sampleSize = 5
)

// downloadPause is the politeness delay after each download attempt.
// Tests shorten it.
var downloadPause = time.Second

// ErrNoMatches is returned by callers that treat an empty harvest as a
// failure.
var ErrNoMatches = errors.New("no catalog items matched the filters")

// Request names the catalog page and the optional date filters. Year is four
// digits and Month two; empty means no filter.
type Request struct {
	URL   string
	Year  string
	Month string
}

// Result holds the outcome of a harvest run.
type Result struct {
	// Targets is every matched item in catalog order, including items
	// skipped because their file already existed and items that failed.
	Targets []types.DownloadTarget

	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of matched items.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any download failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Items returns the matched catalog items.
func (r Result) Items() []types.CatalogItem {
	items := make([]types.CatalogItem, len(r.Targets))
	for i, t := range r.Targets {
		items[i] = t.Item
	}
	return items
}

// Harvester wires the renderer, the downloader and the extension resolver to
// one catalog profile.
type Harvester struct {
	renderer   render.Renderer
	downloader wget.Downloader
	extensions layout.ExtensionResolver
	profile    types.CatalogProfile
	filter     catalog.DateFilter
	baseDir    string
	log        logger.Logger
}

// NewHarvester validates cfg.Profile and returns a harvester writing under
// cfg.DownloadsDir (default "downloads"). A nil extensions resolver uses the
// profile's fixed extension.
func NewHarvester(
	cfg types.HarvestConfig,
	renderer render.Renderer,
	downloader wget.Downloader,
	extensions layout.ExtensionResolver,
	log logger.Logger,
) (*Harvester, error) {
	if err := catalog.Validate(cfg.Profile); err != nil {
		return nil, err
	}
	filter, err := catalog.NewDateFilter(cfg.Profile)
	if err != nil {
		return nil, err
	}
	if extensions == nil {
		extensions = layout.StaticExtension(cfg.Profile.Extension)
	}
	baseDir := cfg.DownloadsDir
	if baseDir == "" {
		baseDir = defaultDownloadsDir
	}
	return &Harvester{
		renderer:   renderer,
		downloader: downloader,
		extensions: extensions,
		profile:    cfg.Profile,
		filter:     filter,
		baseDir:    baseDir,
		log:        log,
	}, nil
}

// Run harvests req. Render and setup errors abort the run; per-item problems
// are logged and counted. When nothing matches, Run returns an empty Result
// and a nil error.
func (h *Harvester) Run(ctx context.Context, req Request) (Result, error) {
	var result Result

	if err := layout.EnsureDir(h.baseDir); err != nil {
		return result, err
	}

	items, err := h.collect(ctx, req)
	if err != nil || len(items) == 0 {
		return result, err
	}

	total := len(items)
	h.log.Info("starting downloads", logger.Int("count", total), logger.String("dir", h.baseDir))

	for i, item := range items {
		progress := fmt.Sprintf("[%d/%d]", i+1, total)
		log := h.log.With(
			logger.String("progress", progress),
			logger.String("title", item.Title()),
		)

		target, err := h.target(ctx, item, req.URL)
		if err != nil {
			log.Error("✗ cannot build download target", logger.Error(err))
			result.Targets = append(result.Targets, types.DownloadTarget{Item: item})
			result.Failed++
			continue
		}
		result.Targets = append(result.Targets, target)

		if layout.Exists(target.Path) {
			log.Info("skipping, file already exists", logger.String("path", target.Path))
			result.Skipped++
			continue
		}

		if err := layout.EnsureDir(filepath.Dir(target.Path)); err != nil {
			log.Error("✗ download failed", logger.Error(err))
			result.Failed++
			continue
		}

		log.Info("downloading", logger.String("url", target.URL), logger.String("path", target.Path))
		if err := h.downloader.Download(ctx, target.URL, target.Path); err != nil {
			log.Error("✗ download failed", logger.String("path", target.Path), logger.Error(err))
			result.Failed++
		} else {
			log.Info("✓ downloaded", logger.String("path", target.Path))
			result.Downloaded++
		}

		if i < total-1 {
			if err := pause(ctx, downloadPause); err != nil {
				return result, err
			}
		}
	}

	h.log.Info("harvest complete",
		logger.Int("downloaded", result.Downloaded),
		logger.Int("skipped", result.Skipped),
		logger.Int("failed", result.Failed),
		logger.Int("total", result.Total()))
	return result, nil
}

// Plan renders and filters like Run and returns the targets it would
// download, without touching the filesystem.
func (h *Harvester) Plan(ctx context.Context, req Request) ([]types.DownloadTarget, error) {
	items, err := h.collect(ctx, req)
	if err != nil {
		return nil, err
	}
	targets := make([]types.DownloadTarget, 0, len(items))
	for _, item := range items {
		target, err := h.target(ctx, item, req.URL)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// collect renders req.URL and returns the items matching the date filters.
func (h *Harvester) collect(ctx context.Context, req Request) ([]types.CatalogItem, error) {
	h.log.Info("harvesting catalog",
		logger.String("url", req.URL),
		logger.String("profile", h.profile.Name),
		logger.String("year", req.Year),
		logger.String("month", req.Month))

	page, err := h.renderer.Render(ctx, req.URL, h.profile.ItemSelector())
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", req.URL, err)
	}

	parsed, err := catalog.Parse(page.HTML, h.profile, h.log)
	if err != nil {
		return nil, err
	}
	items := h.filter.Apply(parsed, req.Year, req.Month, h.log)

	if len(items) == 0 {
		h.log.Warn("no items matched the filters",
			logger.Int("parsed", len(parsed)),
			logger.String("year", req.Year),
			logger.String("month", req.Month),
			logger.Strings("sample_titles", catalog.SampleTitles(page.HTML, h.profile, sampleSize)))
		return nil, nil
	}
	h.log.Info("items matched", logger.Int("count", len(items)), logger.Int("parsed", len(parsed)))
	return items, nil
}

// target computes the download URL and destination path of item.
func (h *Harvester) target(ctx context.Context, item types.CatalogItem, pageURL string) (types.DownloadTarget, error) {
	url, err := wget.DownloadURL(h.profile.DownloadURL, item.EditionID(), pageURL)
	if err != nil {
		return types.DownloadTarget{}, fmt.Errorf("edition %s: %w", item.EditionID(), err)
	}
	ext := h.extensions.Resolve(ctx, url)
	return types.DownloadTarget{
		Item: item,
		URL:  url,
		Path: filepath.Join(layout.Dir(h.baseDir, item), layout.Filename(item.Title(), ext)),
	}, nil
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
