package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"apigrader/internal/report"
	"apigrader/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsDB string

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "", "SQLite-база с сохраненными прогонами.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [run-id] [--db <path>]",
	Short: "Показывает сохраненные прогоны или результаты одного прогона.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("db") {
			cfg.DB = runsDB
		}
		if cfg.DB == "" {
			return fmt.Errorf("database path is not set, use --db or the db config field")
		}
		if _, err := os.Stat(cfg.DB); err != nil {
			return err
		}

		db, err := store.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		t := report.NewTable(os.Stdout)

		if len(args) == 0 {
			runs, err := db.Runs(cmd.Context())
			if err != nil {
				return err
			}
			t.AppendHeader(table.Row{"Run", "Started", "Students", "Pass", "Fail"})
			for _, r := range runs {
				t.AppendRow(table.Row{r.ID, r.StartedAt.Format(time.DateTime), r.Students, r.Passed, r.Students - r.Passed})
			}
			t.Render()
			return nil
		}

		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		results, err := db.Run(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("run %d not found", runID)
		}
		t.AppendHeader(table.Row{report.ColumnStudentName, report.ColumnBaseURL, report.ColumnFinalGrade})
		for _, r := range results {
			t.AppendRow(table.Row{r.StudentName, r.BaseURL, r.Grade})
		}
		t.Render()
		return nil
	},
}
