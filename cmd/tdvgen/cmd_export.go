package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lexvec/tdv"
)

// newMeaningsCmd creates the "tdvgen meanings" subcommand.
func newMeaningsCmd(g *globalFlags) *cobra.Command {
	var named bool

	cmd := &cobra.Command{
		Use:   "meanings <output.json>",
		Short: "Write the sense snapshot",
		Long:  "Write every sense as {id, term, pos, descr, lang, repr}. The snapshot can be loaded back through meaning_file_path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("named") {
				named = eng.Config().HumanReadable
			}
			return runMeanings(cmd.OutOrStdout(), eng, args[0], named)
		},
	}
	cmd.Flags().BoolVar(&named, "named", false, "label every feature with its term and category (default: human_readable)")
	return cmd
}

func runMeanings(w io.Writer, eng *tdv.Engine, path string, named bool) error {
	if err := eng.WriteSnapshotFile(path, named); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d senses to %s\n", eng.Cache().Len(), path)
	return nil
}

// newVectorsCmd creates the "tdvgen vectors" subcommand.
func newVectorsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vectors <output.json>",
		Short: "Write sense vectors grouped by term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runVectors(cmd.OutOrStdout(), eng, args[0])
		},
	}
}

func runVectors(w io.Writer, eng *tdv.Engine, path string) error {
	if err := eng.WriteTermVectorsFile(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote term vectors to %s\n", path)
	return nil
}

// newMatrixCmd creates the "tdvgen matrix" subcommand.
func newMatrixCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix <grid.tsv> <index.json>",
		Short: "Write the pairwise sense similarity matrix",
		Long:  "Write the cosine between every pair of senses as a tab-separated grid, with the row labels in a JSON side file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runMatrix(cmd.OutOrStdout(), eng, args[0], args[1])
		},
	}
}

func runMatrix(w io.Writer, eng *tdv.Engine, gridPath, indexPath string) error {
	if err := eng.WriteSimilarityMatrixFiles(gridPath, indexPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %dx%d matrix to %s\n", eng.Cache().Len(), eng.Cache().Len(), gridPath)
	return nil
}

// newDenseCmd creates the "tdvgen dense" subcommand.
func newDenseCmd(g *globalFlags) *cobra.Command {
	var sep string

	cmd := &cobra.Command{
		Use:   "dense <output>",
		Short: "Write dense vectors over the effective dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runDense(cmd.OutOrStdout(), eng, args[0], sep)
		},
	}
	cmd.Flags().StringVar(&sep, "sep", " ", "value separator")
	return cmd
}

func runDense(w io.Writer, eng *tdv.Engine, path, sep string) error {
	if err := eng.WriteDenseVectorsFile(path, sep); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d dense vectors of width %d to %s\n", eng.Cache().Len(), eng.EffectiveWidth(), path)
	return nil
}

// newSnapshotCmd creates the "tdvgen snapshot" subcommand.
func newSnapshotCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <vectors.db>",
		Short: "Store the sense vectors in a SQLite snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := loadEngine(cmd.Context(), g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runSnapshot(cmd.Context(), cmd.OutOrStdout(), eng, args[0])
		},
	}
}

func runSnapshot(ctx context.Context, w io.Writer, eng *tdv.Engine, path string) error {
	if err := eng.SaveSnapshotStore(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "stored %d senses in %s\n", eng.Cache().Len(), path)
	return nil
}
