// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dlibra-harvest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the dlibra-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "dlibra-harvest",
	Short: "Download dated issues from dLibra digital library catalogs",
	Long: `dlibra-harvest renders a dLibra publication page in headless Chrome,
reads the issues listed in its document tree, keeps those matching an
optional year and month, and downloads each one with wget into
downloads/<year>/<month>/.

Catalog markup differs between libraries; pick one with --profile or add
your own in a profiles file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./dlibra-harvest.yaml or ~/.config/dlibra-harvest/dlibra-harvest.yaml)")
	pf.String("profile", "", "catalog profile (see the profiles command)")
	pf.String("profiles-file", "", "YAML file with additional catalog profiles")
	pf.String("downloads-dir", "", "base directory for downloads (default \"downloads\")")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "log file path (default \"dlibra-harvest.log\", \"-\" disables it)")

	bindFlags(pf, map[string]string{
		"profile":       "profile",
		"profiles_file": "profiles-file",
		"downloads_dir": "downloads-dir",
		"log.level":     "log-level",
		"log.file":      "log-file",
	})
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dlibra-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dlibra-harvest"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("DLIBRA_HARVEST")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
