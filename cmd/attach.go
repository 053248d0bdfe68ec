package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/api"
	"github.com/climagraph/climagraph/internal/sensor"
)

var attachCmd = &cobra.Command{
	Use:   "attach <sensor-id> <file>",
	Short: "Attach a data file to a sensor and auto-detect its columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.AttachFile(args[0], args[1])
		if jsonOut || !res.Success {
			return emit(res)
		}
		fmt.Printf("✓ %s\n", res.Message)
		if p, ok := res.Payload.(api.AttachPayload); ok {
			printMapping(p.Detected)
		}
		return nil
	},
}

func printMapping(m sensor.ColumnMapping) {
	for _, r := range []sensor.Role{sensor.RoleDate, sensor.RoleTemperature, sensor.RoleHumidity, sensor.RoleDewPoint} {
		col := m.Column(r)
		if col == "" {
			col = "(unassigned)"
		}
		fmt.Printf("  %-12s %s\n", r+":", col)
	}
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
