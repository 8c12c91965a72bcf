// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/dlibra-harvest/internal/catalog"
	"github.com/pdiddy/dlibra-harvest/internal/layout"
	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const (
	defaultLogFile   = "dlibra-harvest.log"
	defaultUserAgent = "dlibra-harvest/0.1"
)

// envKeyReplacer maps nested keys to env names: log.level -> DLIBRA_HARVEST_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("downloads_dir", "downloads")
	v.SetDefault("profile", catalog.DefaultProfile)
	v.SetDefault("profiles_file", "")
	v.SetDefault("log.level", logger.DefaultLevel)
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("render.timeout", 30*time.Second)
	v.SetDefault("render.settle_delay", 5*time.Second)
	v.SetDefault("render.locale", "en-US")
	v.SetDefault("render.browser_path", "")
	v.SetDefault("wget.binary", "wget")
	v.SetDefault("wget.tries", 3)
	v.SetDefault("wget.timeout", 30*time.Second)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", defaultUserAgent)
}

// bindFlags binds config keys to flags of fs, keyed by config key.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// loggerConfig reads the log.* keys. Output goes to stdout and, unless
// log.file is "-" or empty, to the log file as well.
func loggerConfig(v *viper.Viper) logger.Config {
	cfg := logger.Config{
		Level:       v.GetString("log.level"),
		Format:      v.GetString("log.format"),
		OutputPaths: []string{"stdout"},
	}
	if file := v.GetString("log.file"); file != "" && file != "-" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	cfg.SetDefaults()
	return cfg
}

// newRunLogger builds the logger for one command invocation, tagged with a
// fresh run id.
func newRunLogger(v *viper.Viper) (logger.Logger, error) {
	log, err := logger.New(loggerConfig(v))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log.With(logger.String("run_id", uuid.NewString())), nil
}

// harvestConfig assembles a HarvestConfig from v, resolving the catalog
// profile by name.
func harvestConfig(v *viper.Viper) (types.HarvestConfig, error) {
	profiles, err := catalog.LoadProfiles(v.GetString("profiles_file"))
	if err != nil {
		return types.HarvestConfig{}, err
	}
	profile, err := profiles.Lookup(v.GetString("profile"))
	if err != nil {
		return types.HarvestConfig{}, err
	}

	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   v.GetDuration("http.timeout"),
			UserAgent: v.GetString("http.user_agent"),
		},
		DownloadsDir: v.GetString("downloads_dir"),
		Render: types.RenderConfig{
			Timeout:     v.GetDuration("render.timeout"),
			SettleDelay: v.GetDuration("render.settle_delay"),
			Locale:      v.GetString("render.locale"),
			BrowserPath: v.GetString("render.browser_path"),
		},
		Wget: types.WgetConfig{
			Binary:  v.GetString("wget.binary"),
			Tries:   v.GetInt("wget.tries"),
			Timeout: v.GetDuration("wget.timeout"),
		},
		Profile: profile,
	}, nil
}

// extensionResolver returns a HEAD probe when the profile detects extensions
// and the profile's fixed extension otherwise.
func extensionResolver(cfg types.HarvestConfig, log logger.Logger) layout.ExtensionResolver {
	if !cfg.Profile.DetectExtension {
		return layout.StaticExtension(cfg.Profile.Extension)
	}
	client := &http.Client{Timeout: cfg.Timeout}
	return layout.NewHeaderProbe(client, cfg.UserAgent, cfg.Profile.Extension, log)
}
