package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/api"
)

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Manage sensors",
}

var sensorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new sensor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		return emit(a.AddSensor(args[0]))
	},
}

var sensorRenameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a sensor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		return emit(a.RenameSensor(args[0], args[1]))
	},
}

var sensorDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sensor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		return emit(a.DeleteSensor(args[0]))
	},
}

var sensorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sensors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.ListSensors()
		if jsonOut || !res.Success {
			return emit(res)
		}
		infos, _ := res.Payload.([]api.SensorInfo)
		if len(infos) == 0 {
			fmt.Println("(no sensors)")
			return nil
		}
		for _, s := range infos {
			state := "mapping incomplete"
			if s.Ready {
				state = "ready"
			} else if s.FilePath == "" {
				state = "no file"
			}
			fmt.Printf("- %s  %s  [%s]", s.ID, s.Name, state)
			if s.FilePath != "" {
				fmt.Printf("  %s", s.FilePath)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sensorCmd)
	sensorCmd.AddCommand(sensorAddCmd)
	sensorCmd.AddCommand(sensorRenameCmd)
	sensorCmd.AddCommand(sensorDeleteCmd)
	sensorCmd.AddCommand(sensorListCmd)
}
