package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lexvec/tdv"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	useSnap    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:           "tdvgen",
		Short:         "Generate dictionary meaning vectors",
		Long:          "Load a dictionary, build one sparse vector per sense and export the result.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "config.yaml", "engine configuration file")
	cmd.PersistentFlags().BoolVar(&g.useSnap, "use-snapshot", false, "start from the configured snapshot instead of rebuilding")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newMeaningsCmd(&g),
		newVectorsCmd(&g),
		newMatrixCmd(&g),
		newDenseCmd(&g),
		newSnapshotCmd(&g),
	)
	return cmd
}

// loadEngine reads the configuration and builds the engine, logging to w.
func loadEngine(ctx context.Context, g *globalFlags, w io.Writer) (*tdv.Engine, error) {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	cfg, err := tdv.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}
	eng, err := tdv.New(ctx, cfg, tdv.Options{Logger: logger, Rebuild: !g.useSnap})
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return eng, nil
}
