// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pdiddy/dlibra-harvest/internal/httputil"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
)

// probeRetries bounds 429 retries for a single HEAD request.
const probeRetries = 2

// ExtensionResolver picks the file extension for a download URL.
type ExtensionResolver interface {
	// Resolve returns an extension without a leading dot. It never fails;
	// on any problem it returns its fallback.
	Resolve(ctx context.Context, url string) string
}

// StaticExtension always resolves to itself.
type StaticExtension string

// Resolve returns the static extension.
func (s StaticExtension) Resolve(context.Context, string) string {
	return strings.TrimPrefix(string(s), ".")
}

// HeaderProbe asks the server for the file name with a HEAD request and uses
// the extension of the Content-Disposition filename.
type HeaderProbe struct {
	client    *http.Client
	userAgent string
	fallback  string
	log       logger.Logger
}

// NewHeaderProbe returns a probe that falls back to fallback when the
// response carries no usable filename.
func NewHeaderProbe(client *http.Client, userAgent, fallback string, log logger.Logger) *HeaderProbe {
	return &HeaderProbe{
		client:    client,
		userAgent: userAgent,
		fallback:  strings.TrimPrefix(fallback, "."),
		log:       log,
	}
}

// Resolve issues the HEAD request and returns the detected extension or the
// fallback.
func (p *HeaderProbe) Resolve(ctx context.Context, url string) string {
	ext, err := p.probe(ctx, url)
	if err != nil {
		p.log.Debug("extension lookup failed, using default",
			logger.String("url", url),
			logger.String("extension", p.fallback),
			logger.Error(err))
		return p.fallback
	}
	p.log.Debug("detected extension", logger.String("url", url), logger.String("extension", ext))
	return ext
}

func (p *HeaderProbe) probe(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.client, req, probeRetries)
	if err != nil {
		return "", fmt.Errorf("HEAD request: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return ExtensionFromDisposition(resp.Header.Get("Content-Disposition"))
}

// ExtensionFromDisposition extracts the extension of the filename named in a
// Content-Disposition header value.
func ExtensionFromDisposition(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("no Content-Disposition header")
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("parsing Content-Disposition: %w", err)
	}
	name := params["filename"]
	if name == "" {
		return "", fmt.Errorf("no filename in Content-Disposition")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", fmt.Errorf("filename %q has no extension", name)
	}
	if !isAlnum(ext) {
		return "", fmt.Errorf("filename %q has an unusable extension %q", name, ext)
	}
	return ext, nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}
