package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List training runs or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRunsCmd,
	}

	cmd.Flags().String("status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED, CANCELLED)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	return cmd
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	client, err := newClientFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		run, err := client.getTrainingRun(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", run.ID, run.Name)
		fmt.Fprintf(out, "  status:   %s\n", run.Status)
		fmt.Fprintf(out, "  data:     %s\n", run.DataPath)
		fmt.Fprintf(out, "  output:   %s\n", run.OutputPath)
		if run.BestEpoch != nil && run.BestAccuracy != nil {
			fmt.Fprintf(out, "  best:     epoch %d (accuracy %.4f)\n", *run.BestEpoch, *run.BestAccuracy)
		}
		if run.LastError != "" {
			fmt.Fprintf(out, "  error:    %s\n", run.LastError)
		}
		return nil
	}

	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	list, err := client.listTrainingRuns(ctx, status, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tBEST")
	for _, run := range list.Items {
		best := "-"
		if run.BestEpoch != nil && run.BestAccuracy != nil {
			best = fmt.Sprintf("epoch %d (%.4f)", *run.BestEpoch, *run.BestAccuracy)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", run.ID, run.Name, run.Status, best)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d runs\n", len(list.Items), list.Total)
	return nil
}
