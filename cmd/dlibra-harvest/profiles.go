// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dlibra-harvest/internal/catalog"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available catalog profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := catalog.LoadProfiles(viper.GetString("profiles_file"))
		if err != nil {
			return err
		}
		renderProfiles(cmd.OutOrStdout(), profiles, viper.GetString("profile"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

// renderProfiles prints one row per profile; the selected one is starred.
func renderProfiles(w io.Writer, profiles catalog.Profiles, selected string) {
	if selected == "" {
		selected = catalog.DefaultProfile
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Name", "Items", "Download URL", "Undated", "Description"})
	for _, name := range profiles.Names() {
		p := profiles[name]
		mark := ""
		if name == selected {
			mark = "*"
		}
		t.AppendRow(table.Row{mark, p.Name, p.ItemSelector(), p.DownloadURL, string(p.Undated), p.Description})
	}
	t.Render()
}
