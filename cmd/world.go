package main

import (
	"github.com/spf13/cobra"

	"github.com/neophilus/manifester/internal/pipeline"
)

var worldCmd = &cobra.Command{
	Use:   "world",
	Short: "Sync the city cache and rebuild trips",
	Long: `Resolves locations missing from world/cities.json, rewrites
world/trips.json and bundles the world topology with topojson when it is
installed. The manifest and gallery are left alone.`,
	RunE: runMode(pipeline.ModeWorld),
}

func init() {
	rootCmd.AddCommand(worldCmd)
}
