package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Apurer/restaurant-ordering-api/internal/platform/migrations"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dsn string
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the ordering database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			if dsn == "" {
				dsn = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
			}
			if dsn == "" {
				return errors.New("POSTGRES_DSN not set and --dsn not given")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (defaults to POSTGRES_DSN)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrations.Run(dsn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrations.Rollback(dsn, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := migrations.CurrentStatus(dsn)
			if err != nil {
				return err
			}
			switch {
			case status.None:
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
			case status.Dirty:
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", status.Version)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", status.Version)
			}
			return nil
		},
	}

	root.AddCommand(up, down, version)
	return root
}
