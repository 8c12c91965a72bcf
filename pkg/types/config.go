package types

import "time"

// UndatedPolicy decides what happens to catalog items whose title carries no
// recognizable date.
type UndatedPolicy string

const (
	// UndatedReject drops undated items regardless of the filters.
	UndatedReject UndatedPolicy = "reject"

	// UndatedInclude keeps undated items when neither a year nor a month
	// filter is set. They are stored under unknown_date/.
	UndatedInclude UndatedPolicy = "include"
)

// CatalogProfile describes the markup and URL conventions of one library's
// document-tree viewer. Profiles are loaded from YAML.
type CatalogProfile struct {
	// Name identifies the profile on the command line (e.g. "wbc-poznan").
	Name string `json:"name" yaml:"name"`

	// Description is a short human-readable note shown by the profiles command.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// ItemTag is the element name of a tree item ("div" or "span").
	ItemTag string `json:"item_tag" yaml:"item_tag"`

	// ItemClass is the CSS class marking a tree item. The renderer waits for
	// it to appear before reading the page.
	ItemClass string `json:"item_class" yaml:"item_class"`

	// ContentLabel is the aria-label of the "show content" link inside an item.
	ContentLabel string `json:"content_label" yaml:"content_label"`

	// TitleClass is the CSS class of the title link inside an item.
	TitleClass string `json:"title_class" yaml:"title_class"`

	// EditionPattern is a regular expression applied to the content link href;
	// its first capture group is the edition id.
	EditionPattern string `json:"edition_pattern" yaml:"edition_pattern"`

	// DownloadURL is the direct download template. Supported placeholders:
	// {id}, {scheme}, {host}.
	DownloadURL string `json:"download_url" yaml:"download_url"`

	// DatePattern is a regular expression applied to the title; group 1 is
	// the year and the optional group 2 the month.
	DatePattern string `json:"date_pattern" yaml:"date_pattern"`

	// Undated selects how items without a date in their title are treated.
	Undated UndatedPolicy `json:"undated" yaml:"undated"`

	// Extension is the file extension used when none can be detected.
	Extension string `json:"extension" yaml:"extension"`

	// DetectExtension enables a HEAD request per item to read the filename
	// from the Content-Disposition header.
	DetectExtension bool `json:"detect_extension" yaml:"detect_extension"`
}

// ItemSelector returns the CSS selector matching tree items.
func (p CatalogProfile) ItemSelector() string {
	return p.ItemTag + "." + p.ItemClass
}

// HTTPConfig holds shared HTTP settings for requests made outside the browser.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RenderConfig holds settings for the headless browser session.
type RenderConfig struct {
	// Timeout bounds the wait for the tree-item marker (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// SettleDelay is the pause after the marker appears, letting the
	// remaining asynchronous rendering finish (default 5s).
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`

	// Locale is passed to the browser as --lang (default "en-US").
	Locale string `json:"locale" yaml:"locale"`

	// BrowserPath overrides the Chrome/Chromium executable. Empty means
	// search the usual install locations.
	BrowserPath string `json:"browser_path,omitempty" yaml:"browser_path,omitempty"`
}

// WgetConfig holds settings for the external download utility.
type WgetConfig struct {
	// Binary is the executable name or path (default "wget").
	Binary string `json:"binary" yaml:"binary"`

	// Tries is the number of attempts wget makes per file (default 3).
	Tries int `json:"tries" yaml:"tries"`

	// Timeout is wget's per-attempt network timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// HarvestConfig groups the settings of one harvest run.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadsDir is the base directory for downloaded files.
	DownloadsDir string `json:"downloads_dir" yaml:"downloads_dir"`

	Render RenderConfig `json:"render" yaml:"render"`
	Wget   WgetConfig   `json:"wget" yaml:"wget"`

	// Profile is the catalog profile in effect.
	Profile CatalogProfile `json:"profile" yaml:"profile"`
}
