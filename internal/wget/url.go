// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wget

import (
	"fmt"
	"net/url"
	"strings"
)

// DownloadURL expands a catalog download template. {id} becomes the edition
// id; {scheme} and {host} are taken from pageURL, the catalog page the item
// was found on.
func DownloadURL(template, id, pageURL string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("empty edition id")
	}
	out := strings.ReplaceAll(template, "{id}", id)

	if strings.Contains(out, "{scheme}") || strings.Contains(out, "{host}") {
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("parsing catalog URL %q: %w", pageURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("catalog URL %q has no scheme or host", pageURL)
		}
		out = strings.NewReplacer("{scheme}", u.Scheme, "{host}", u.Host).Replace(out)
	}
	return out, nil
}
