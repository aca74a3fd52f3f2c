package main

import (
	"github.com/spf13/cobra"

	"github.com/neophilus/manifester/internal/pipeline"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Generate Manifest.elm from the existing city cache",
	Long: `Scans the gallery, derives missing thumbnails and blurs, and writes
the manifest using only the coordinates already in world/cities.json. No
geocoding requests are made.`,
	RunE: runMode(pipeline.ModeManifest),
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}
