package commands

import (
	"os"

	"apigrader/internal/endpoints"
	"apigrader/internal/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(endpointsCmd)
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints [base-url]",
	Short: "Показывает проверяемые эндпоинты; с base-url печатает полные адреса.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := report.NewTable(os.Stdout)
		header := table.Row{"ID", "Key"}
		if len(args) == 1 {
			header = append(header, "URL")
		}
		t.AppendHeader(header)

		for _, ep := range endpoints.All() {
			row := table.Row{ep.ID, ep.Key}
			if len(args) == 1 {
				row = append(row, endpoints.URL(args[0], ep))
			}
			t.AppendRow(row)
		}
		t.Render()
	},
}
