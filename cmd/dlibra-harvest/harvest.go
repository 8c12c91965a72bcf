// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dlibra-harvest/internal/acquire"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/internal/render"
	"github.com/pdiddy/dlibra-harvest/internal/wget"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [catalog-url]",
	Short: "Download catalog issues matching a year and month",
	Long: `Harvest renders the catalog page, keeps the issues whose title date
matches --year and --month, and downloads each one with wget. Files that
already exist are skipped.

Without a URL argument the URL, year and month are read interactively.
The command fails when no issue matches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHarvest,
}

func init() {
	addRequestFlags(harvestCmd)
	harvestCmd.Flags().String("browser", "", "Chrome/Chromium executable (default: search PATH)")
	harvestCmd.Flags().Duration("render-timeout", 0, "how long to wait for catalog items to appear (default 30s)")
	harvestCmd.Flags().Int("tries", 0, "wget attempts per file (default 3)")

	bindFlags(harvestCmd.Flags(), map[string]string{
		"render.browser_path": "browser",
		"render.timeout":      "render-timeout",
		"wget.tries":          "tries",
	})

	rootCmd.AddCommand(harvestCmd)
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("year", "", "four-digit year filter (e.g. 1930)")
	cmd.Flags().String("month", "", "month filter, 1-12 (needs titles with full dates)")
}

// requestFromArgs builds the request from the URL argument and flags, or
// prompts for all three when no URL is given.
func requestFromArgs(cmd *cobra.Command, args []string) (acquire.Request, error) {
	if len(args) == 0 {
		return promptRequest(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	year, _ := cmd.Flags().GetString("year")
	month, _ := cmd.Flags().GetString("month")
	return newRequest(args[0], year, month)
}

// harvesterFactory builds the harvester for a harvest run. Tests replace it
// to avoid starting Chrome and wget.
var harvesterFactory = newHarvester

// newHarvester wires the production renderer, downloader and extension
// resolver for cfg.
func newHarvester(cfg types.HarvestConfig, log logger.Logger) (*acquire.Harvester, error) {
	downloader := wget.New(cfg.Wget)
	if err := downloader.Available(); err != nil {
		return nil, err
	}
	renderer := render.NewChromeRenderer(cfg.Render, log)
	return acquire.NewHarvester(cfg, renderer, downloader, extensionResolver(cfg, log), log)
}

func runHarvest(cmd *cobra.Command, args []string) error {
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
	h, err := harvesterFactory(cfg, log)
	if err != nil {
		log.Error("setup failed", logger.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := h.Run(ctx, req)
	if err != nil {
		log.Error("harvest failed", logger.Error(err))
		return err
	}
	if result.Total() == 0 {
		return acquire.ErrNoMatches
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nHarvest summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return nil
}
