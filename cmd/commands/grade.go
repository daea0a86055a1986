package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"apigrader/internal/grader"
	"apigrader/internal/roster"
	"apigrader/internal/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	gradeOut        string
	gradeCSV        string
	gradeZip        string
	gradeDB         string
	gradeTimeout    string
	gradeNoProgress bool
)

func init() {
	flags := gradeCmd.Flags()
	flags.StringVarP(&gradeOut, "out", "o", "", "Каталог для CSV, текстовых отчетов и архива.")
	flags.StringVar(&gradeCSV, "csv", "", "Имя CSV-файла с результатами.")
	flags.StringVar(&gradeZip, "zip", "", "Имя архива с отчетами студентов.")
	flags.StringVar(&gradeDB, "db", "", "SQLite-база, в которую сохраняется прогон.")
	flags.StringVar(&gradeTimeout, "timeout", "", "Таймаут одного запроса, например 10s.")
	flags.BoolVar(&gradeNoProgress, "no-progress", false, "Не показывать прогресс-бар.")
	rootCmd.AddCommand(gradeCmd)
}

func applyGradeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutDir = gradeOut
	}
	if flags.Changed("csv") {
		cfg.CSVName = gradeCSV
	}
	if flags.Changed("zip") {
		cfg.ZipName = gradeZip
	}
	if flags.Changed("db") {
		cfg.DB = gradeDB
	}
	if flags.Changed("timeout") {
		cfg.Timeout = gradeTimeout
	}
}

var gradeCmd = &cobra.Command{
	Use:   "grade <roster.csv>",
	Short: "Проверяет всех студентов из CSV (колонки student_name, base_url) и выгружает результаты.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyGradeFlags(cmd)

		entries, err := roster.ReadFile(args[0])
		if err != nil {
			return err
		}
		f, err := newFetcher()
		if err != nil {
			return err
		}

		g := grader.NewGrader(
			grader.WithFetcher(f),
			grader.WithProgressBar(!gradeNoProgress && !verbose),
		)

		started := time.Now()
		summary, err := g.GradeRoster(cmd.Context(), entries)
		if err != nil {
			return err
		}
		slog.Debug("grading time", "seconds", time.Since(started).Seconds())

		summary.Print(os.Stdout)

		art, err := summary.Export(cfg.OutDir, cfg.CSVName, cfg.ZipName)
		if err != nil {
			return err
		}

		if cfg.DB != "" {
			db, err := store.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			runID, err := db.SaveRun(cmd.Context(), started, summary)
			if err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			slog.Info("saved grading run", "db", cfg.DB, "run", runID)
		}

		color.Green("✅ Проверка завершена!")
		fmt.Printf("  CSV:     %s\n", art.CSV)
		fmt.Printf("  Отчеты:  %s\n", art.StudentsDir)
		fmt.Printf("  Архив:   %s\n", art.Zip)
		return nil
	},
}
