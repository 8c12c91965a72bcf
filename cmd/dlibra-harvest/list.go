// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dlibra-harvest/internal/acquire"
	"github.com/pdiddy/dlibra-harvest/internal/layout"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/internal/render"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list [catalog-url]",
	Short: "Show the issues a harvest would download",
	Long: `List renders the catalog page and prints every issue matching --year and
--month together with its download URL and destination path. Nothing is
downloaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	addRequestFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

// plannerFactory builds the harvester used for dry runs. It has no
// downloader. Tests replace it.
var plannerFactory = newPlanner

func newPlanner(cfg types.HarvestConfig, log logger.Logger) (*acquire.Harvester, error) {
	renderer := render.NewChromeRenderer(cfg.Render, log)
	return acquire.NewHarvester(cfg, renderer, nil, extensionResolver(cfg, log), log)
}

func runList(cmd *cobra.Command, args []string) error {
	req, err := requestFromArgs(cmd, args)
	if err != nil {
		return err
	}

	log, err := newRunLogger(viper.GetViper())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := harvestConfig(viper.GetViper())
	if err != nil {
		return err
	}
	h, err := plannerFactory(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	targets, err := h.Plan(ctx, req)
	if err != nil {
		log.Error("listing failed", logger.Error(err))
		return err
	}
	if len(targets) == 0 {
		return acquire.ErrNoMatches
	}
	renderTargets(cmd.OutOrStdout(), targets)
	return nil
}

// renderTargets prints targets as a table, marking files already on disk.
func renderTargets(w io.Writer, targets []types.DownloadTarget) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Date", "Edition", "Path", "Exists"})
	for i, target := range targets {
		t.AppendRow(table.Row{
			i + 1,
			target.Item.Title(),
			dateLabel(target.Item),
			target.Item.EditionID(),
			target.Path,
			strconv.FormatBool(layout.Exists(target.Path)),
		})
	}
	t.AppendFooter(table.Row{"", "Total", len(targets)})
	t.Render()
}

func dateLabel(item types.CatalogItem) string {
	switch {
	case item.Month() != "":
		return item.Year() + "-" + item.Month()
	case item.Year() != "":
		return item.Year()
	default:
		return "undated"
	}
}
