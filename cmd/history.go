package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/store"
)

var historyCSV string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the action history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		if historyCSV != "" {
			return emit(a.ExportHistory(historyCSV))
		}
		res := a.History()
		if jsonOut || !res.Success {
			return emit(res)
		}
		entries, _ := res.Payload.([]store.HistoryEntry)
		if len(entries) == 0 {
			fmt.Println("(no history)")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-16s", e.Timestamp.Local().Format(time.DateTime), e.Action)
			if e.SensorName != "" {
				line += "  " + e.SensorName
			}
			if e.Details != "" {
				line += "  (" + e.Details + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyCSV, "csv", "", "export the history to a CSV file instead of printing it")
}
