// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dlibra-harvest/internal/acquire"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/internal/render"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const catalogURL = "https://www.wbc.poznan.pl/dlibra/publication/900"

const issuesPage = `<html><body>
<div class="tab-content__tree-fake-list-item">
  <a href="/dlibra/publication/900/edition/5001/content" aria-label="Pokaż treść"></a>
  <a class="tab-content__tree-link">Gazeta 1930.01.15</a>
</div>
<div class="tab-content__tree-fake-list-item">
  <a href="/dlibra/publication/900/edition/5003/content" aria-label="Pokaż treść"></a>
  <a class="tab-content__tree-link">Gazeta 1931.03.01</a>
</div>
</body></html>`

type staticRenderer struct{ html string }

func (s staticRenderer) Render(_ context.Context, url, _ string) (render.Page, error) {
	return render.Page{URL: url, HTML: s.html}, nil
}

type fileDownloader struct{ calls int }

func (f *fileDownloader) Download(_ context.Context, _, destPath string) error {
	f.calls++
	return os.WriteFile(destPath, []byte("%PDF-1.4"), 0o644)
}

// useFakes points the global config at a temp downloads dir, silences the
// log file and swaps both factories for fakes.
func useFakes(t *testing.T, d *fileDownloader) string {
	t.Helper()
	dir := t.TempDir()

	viper.Reset()
	setDefaults(viper.GetViper())
	viper.Set("downloads_dir", dir)
	viper.Set("log.file", "-")
	viper.Set("log.level", "error")

	oldHarvester, oldPlanner := harvesterFactory, plannerFactory
	build := func(cfg types.HarvestConfig, log logger.Logger) (*acquire.Harvester, error) {
		return acquire.NewHarvester(cfg, staticRenderer{html: issuesPage}, d, nil, log)
	}
	harvesterFactory, plannerFactory = build, build

	t.Cleanup(func() {
		harvesterFactory, plannerFactory = oldHarvester, oldPlanner
		viper.Reset()
	})
	return dir
}

func testCommand(t *testing.T, year string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	addRequestFlags(cmd)
	require.NoError(t, cmd.Flags().Set("year", year))
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunHarvest_NoMatchesFails(t *testing.T) {
	d := &fileDownloader{}
	useFakes(t, d)
	cmd, _ := testCommand(t, "1850")

	err := runHarvest(cmd, []string{catalogURL})
	assert.ErrorIs(t, err, acquire.ErrNoMatches)
	assert.Zero(t, d.calls)
}

func TestRunHarvest_Downloads(t *testing.T) {
	d := &fileDownloader{}
	dir := useFakes(t, d)
	cmd, out := testCommand(t, "1931")

	require.NoError(t, runHarvest(cmd, []string{catalogURL}))
	assert.Equal(t, 1, d.calls)
	assert.FileExists(t, filepath.Join(dir, "1931", "03", "Gazeta 1931.03.01.pdf"))
	assert.Contains(t, out.String(), "1 downloaded, 0 skipped, 0 failed")
}

func TestRunList_NoMatchesFails(t *testing.T) {
	useFakes(t, &fileDownloader{})
	cmd, _ := testCommand(t, "1850")

	err := runList(cmd, []string{catalogURL})
	assert.ErrorIs(t, err, acquire.ErrNoMatches)
}

func TestRunList_PrintsTargets(t *testing.T) {
	d := &fileDownloader{}
	dir := useFakes(t, d)
	cmd, out := testCommand(t, "1930")

	require.NoError(t, runList(cmd, []string{catalogURL}))
	assert.Zero(t, d.calls)
	assert.Contains(t, out.String(), "Gazeta 1930.01.15")
	assert.NoDirExists(t, filepath.Join(dir, "1930"))
}
