// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/internal/logger/loggertest"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const wbcPage = `<!DOCTYPE html>
<html><body>
<div class="tab-content__tree">
  <div class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/edition/5001/content" aria-label="Pokaż treść"><i></i></a>
    <a class="tab-content__tree-link" href="/dlibra/publication/900/edition/5001">  Gazeta 1930.01.15  </a>
  </div>
  <div class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/edition/5002/content" aria-label="Pokaż treść"></a>
    <a class="tab-content__tree-link">Gazeta 1930.02.10</a>
  </div>
  <div class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/edition/5003/content" aria-label="Pokaż treść"></a>
    <a class="tab-content__tree-link">Gazeta 1931.03.01</a>
  </div>
  <div class="tab-content__tree-fake-list-item">
    <a class="tab-content__tree-link">No content link 1931.04.01</a>
  </div>
  <div class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/content" aria-label="Pokaż treść"></a>
    <a class="tab-content__tree-link">No edition id 1931.05.01</a>
  </div>
  <div class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/edition/5006/content" aria-label="Pokaż treść"></a>
  </div>
  <span class="tab-content__tree-fake-list-item">
    <a href="/dlibra/publication/900/edition/5007/content" aria-label="Pokaż treść"></a>
    <a class="tab-content__tree-link">Wrong tag 1931.06.01</a>
  </span>
</div>
</body></html>`

func wbcProfile(t *testing.T) types.CatalogProfile {
	t.Helper()
	set, err := Builtin()
	require.NoError(t, err)
	p, err := set.Lookup("wbc-poznan")
	require.NoError(t, err)
	return p
}

func TestParse_ExtractsCompleteItems(t *testing.T) {
	p := wbcProfile(t)
	log, logs := loggertest.New()

	items, err := Parse(wbcPage, p, log)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Gazeta 1930.01.15", items[0].Title())
	assert.Equal(t, "5001", items[0].EditionID())
	assert.Equal(t, "Gazeta 1930.02.10", items[1].Title())
	assert.Equal(t, "5002", items[1].EditionID())
	assert.Equal(t, "5003", items[2].EditionID())

	for _, it := range items {
		assert.False(t, it.Dated(), "dates are attached by the filter, not the parser")
	}

	assert.Equal(t, 1, logs.FilterMessage("no content link found").Len())
	assert.Equal(t, 1, logs.FilterMessage("no edition id found in href").Len())
	assert.Equal(t, 1, logs.FilterMessage("no title link found").Len())
}

func TestParse_SpanProfile(t *testing.T) {
	set, err := Builtin()
	require.NoError(t, err)
	p, err := set.Lookup("dlibra")
	require.NoError(t, err)

	items, err := Parse(wbcPage, p, logger.NewNop())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wrong tag 1931.06.01", items[0].Title())
	assert.Equal(t, "5007", items[0].EditionID())
}

func TestParse_EmptyPage(t *testing.T) {
	items, err := Parse("<html><body></body></html>", wbcProfile(t), logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_ContentLabelMustMatch(t *testing.T) {
	page := `<div class="tab-content__tree-fake-list-item">
  <a href="/edition/1" aria-label="Pobierz"></a>
  <a href="/edition/2" aria-label="Pokaż treść"></a>
  <a class="tab-content__tree-link">Gazeta 1930.01.15</a>
</div>`
	items, err := Parse(page, wbcProfile(t), logger.NewNop())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].EditionID())
}

func TestSampleTitles(t *testing.T) {
	p := wbcProfile(t)

	titles := SampleTitles(wbcPage, p, 5)
	assert.Equal(t, []string{
		"Gazeta 1930.01.15",
		"Gazeta 1930.02.10",
		"Gazeta 1931.03.01",
		"No content link 1931.04.01",
		"No edition id 1931.05.01",
	}, titles)

	assert.Len(t, SampleTitles(wbcPage, p, 2), 2)
}
