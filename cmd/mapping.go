package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/api"
	"github.com/climagraph/climagraph/internal/sensor"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <sensor-id>",
	Short: "List the columns of a sensor's attached file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.ListColumns(args[0])
		if jsonOut || !res.Success {
			return emit(res)
		}
		p, _ := res.Payload.(api.ColumnsPayload)
		for _, c := range p.Columns {
			fmt.Printf("- %s\n", c)
		}
		if p.Mapping != nil {
			fmt.Println("current mapping:")
			printMapping(*p.Mapping)
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <sensor-id>",
	Short: "Show the first data rows of a sensor's attached file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.PreviewRows(args[0])
		if jsonOut || !res.Success {
			return emit(res)
		}
		p, _ := res.Payload.(api.PreviewPayload)
		fmt.Println(strings.Join(p.Columns, " | "))
		for _, row := range p.Rows {
			fmt.Println(strings.Join(row, " | "))
		}
		return nil
	},
}

var (
	mapDate        string
	mapTemperature string
	mapHumidity    string
	mapDewPoint    string
)

var mapCmd = &cobra.Command{
	Use:   "map <sensor-id>",
	Short: "Save a column mapping for a sensor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		m := sensor.ColumnMapping{
			Date:        mapDate,
			Temperature: mapTemperature,
			Humidity:    mapHumidity,
			DewPoint:    mapDewPoint,
		}
		return emit(a.SaveMapping(args[0], m))
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().StringVar(&mapDate, "date", "", "date/time column name (required)")
	mapCmd.Flags().StringVar(&mapTemperature, "temperature", "", "temperature column name (required)")
	mapCmd.Flags().StringVar(&mapHumidity, "humidity", "", "humidity column name")
	mapCmd.Flags().StringVar(&mapDewPoint, "dew-point", "", "dew point column name")
	_ = mapCmd.MarkFlagRequired("date")
	_ = mapCmd.MarkFlagRequired("temperature")
}
