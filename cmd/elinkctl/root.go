package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for elinkctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elinkctl",
		Short: "Submit and track entity-linking training runs and linking jobs",
		Long: `elinkctl is the command-line client for the entity-linking service.

It registers entity catalogs, submits bi-encoder training runs and
linking jobs, promotes the best checkpoint of a finished run, and keeps
a local SQLite history of everything it submitted.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("server", "s", defaultServer(),
		"Base URL of the entity-linking service")
	cmd.PersistentFlags().StringP("project", "p", os.Getenv("ELINK_PROJECT_ID"),
		"Project ID sent with every request")

	// Add subcommands
	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewLinkCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewPromoteCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultServer() string {
	if v := os.Getenv("ELINK_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// historyDir returns the directory holding the local submission history.
func historyDir() string {
	if v := os.Getenv("ELINK_HISTORY_DIR"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".elinkctl"
	}
	return filepath.Join(dir, "elinkctl")
}
