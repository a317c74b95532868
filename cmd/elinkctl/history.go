package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"entity-linking-service/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show locally recorded submissions",
		Long: `History lists the training runs and linking jobs this machine has
submitted, from the local SQLite log. It does not contact the server.`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("kind", "", "Filter by kind: train or link")
	cmd.Flags().Int("limit", 20, "Maximum number of entries to show")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := history.Open(historyDir(), history.Options{CreateIfNotExists: true, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	subs, err := db.ListRecent(cmd.Context(), history.Kind(kind), limit)
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no submissions recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tNAME\tSTATUS\tREMOTE ID")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			sub.Timestamp.Format("2006-01-02 15:04"), sub.Kind, sub.Name, sub.Status, sub.RemoteID)
	}
	return w.Flush()
}
