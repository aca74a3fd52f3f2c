package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neophilus/manifester/internal/config"
	"github.com/neophilus/manifester/internal/pipeline"
	"github.com/neophilus/manifester/internal/runerr"
	"github.com/neophilus/manifester/pkg/geocode"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "manifester",
	Short: "Geocode odyssey places and generate the site manifest",
	Long: `Synchronizes the places declared in odyssey.yaml with the cached city
coordinates in world/cities.json, resolving only new locations through
Nominatim, rebuilds the trip lines, derives gallery thumbnails and writes
src/Manifest.elm.

Running without a subcommand performs every step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if policy, _ := cmd.Flags().GetString("policy"); policy != "" {
			cfg.Geocode.Policy = policy
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runMode(pipeline.ModeRun),
}

func init() {
	rootCmd.PersistentFlags().String("policy", "", "resolution policy: locations or strict (overrides config)")
}

// runMode returns a RunE that executes the pipeline in mode.
func runMode(mode pipeline.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gc := geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithTimeout(cfg.Geocode.Timeout),
		)
		res, err := pipeline.New(cfg, gc, nil, nil).Run(ctx, mode)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d resolved, %d trips, %d images\n",
			res.RunID, res.Sync.Resolved, res.Trips, res.Images)
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		kind, _ := runerr.KindOf(err)
		zap.L().Error("manifester: run failed", zap.String("kind", string(kind)), zap.Error(err))
		_ = zap.L().Sync()
		fmt.Fprintf(os.Stderr, "manifester: %v\n", err)
		os.Exit(1)
	}
}
