package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audi70r/commitdigest/internal/export"
)

var dbPath string

var exportCmd = &cobra.Command{
	Use:   "export --db FILE [FILE...]",
	Short: "Write every parsed commit to a SQLite database",
	Long: `Write every parsed commit, inside the window or not, to the commits
table of a SQLite database. An existing commits table is replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			return errors.New("--db is required")
		}
		res, err := collect(cmd.Context(), args)
		if err != nil {
			return err
		}
		n, err := export.Dump(cmd.Context(), dbPath, res.Store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d commits to %s (%d/%d subjects matched)\n",
			n, dbPath, res.Classify.Matched, res.Classify.Total)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file")
}
