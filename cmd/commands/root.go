package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"apigrader/internal/config"
	"apigrader/internal/fetcher"
	"apigrader/internal/helpers"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "apigrader",
	Short:         "apigrader проверяет студенческие API каталога книг и выставляет Pass/Fail.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSlog(verbose)
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Путь к файлу конфигурации (json5).")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный лог, включая каждый запрос.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// newFetcher - фетчер по текущей конфигурации
func newFetcher() (*fetcher.Fetcher, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	client := helpers.NewClient(cfg.UserAgent, timeout)
	return fetcher.New(fetcher.WithClient(client)), nil
}

// ExecuteContext - запускает CLI
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Ошибка: %v", err)
		os.Exit(1)
	}
}
