package commands

import (
	"errors"
	"net/http"

	"apigrader/internal/grader"
	"apigrader/internal/server"

	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Порт HTTP-сервера.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Запускает HTTP-сервер: POST /grade принимает CSV со студентами.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		f, err := newFetcher()
		if err != nil {
			return err
		}
		srv := server.New(grader.NewGrader(grader.WithFetcher(f)), cfg.CSVName, cfg.ZipName)
		err = srv.ListenAndServe(cmd.Context(), cfg.Port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}
