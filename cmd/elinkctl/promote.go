package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPromoteCmd creates the promote command.
func NewPromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote <run-id>",
		Short: "Promote the best checkpoint of a finished training run",
		Long: `Promote refreshes the checkpoint index of a finished training run from
its output directory and copies the highest-accuracy epoch into the run
root, where linking jobs pick it up.`,
		Args: cobra.ExactArgs(1),
		RunE: runPromoteCmd,
	}

	cmd.Flags().Bool("no-refresh", false, "Skip rescanning the output directory for new epochs")

	return cmd
}

func runPromoteCmd(cmd *cobra.Command, args []string) error {
	client, err := newClientFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	runID := args[0]

	noRefresh, _ := cmd.Flags().GetBool("no-refresh")
	if !noRefresh {
		checkpoints, err := client.refreshCheckpoints(ctx, runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d checkpoints\n", checkpoints.Total)
	}

	best, err := client.promoteBestCheckpoint(ctx, runID)
	if err != nil {
		return err
	}

	if best.EvalAccuracy != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "promoted epoch %d (accuracy %.4f) from %s\n",
			best.Epoch, *best.EvalAccuracy, best.Path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "promoted epoch %d from %s\n", best.Epoch, best.Path)
	}
	return nil
}
