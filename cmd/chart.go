package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/api"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Generate and export charts",
}

var chartTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the available chart types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.ChartTypes()
		if jsonOut || !res.Success {
			return emit(res)
		}
		types, _ := res.Payload.([]api.ChartTypeInfo)
		for _, t := range types {
			fmt.Printf("- %-32s %s", t.ID, t.Description)
			if t.Requires != "" {
				fmt.Printf(" (needs %s)", t.Requires)
			}
			fmt.Println()
		}
		return nil
	},
}

var chartSensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "List sensors ready for chart generation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		res := a.SensorsForCharts()
		if jsonOut || !res.Success {
			return emit(res)
		}
		sensors, _ := res.Payload.([]api.ChartSensor)
		if len(sensors) == 0 {
			fmt.Println("(no sensors ready)")
			return nil
		}
		for _, s := range sensors {
			extras := ""
			if s.HasHumidity {
				extras += " +humidity"
			}
			if s.HasDewPoint {
				extras += " +dew-point"
			}
			fmt.Printf("- %s  %s%s\n", s.ID, s.Name, extras)
		}
		return nil
	},
}

var (
	chartType    string
	chartSensors []string
	chartFrom    string
	chartTo      string
	chartOutDir  string
)

var chartGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a chart and write its PNG files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAPI()
		if err != nil {
			return err
		}
		from, err := parseDateFlag(chartFrom)
		if err != nil {
			return err
		}
		to, err := parseDateFlag(chartTo)
		if err != nil {
			return err
		}
		// An end date bounds its whole day, not its midnight.
		if to != nil {
			end := to.Add(24*time.Hour - time.Second)
			to = &end
		}
		res := a.ExportCharts(chartType, chartSensors, from, to, chartOutDir)
		if jsonOut || !res.Success {
			return emit(res)
		}
		fmt.Printf("✓ %s\n", res.Message)
		if paths, ok := res.Payload.([]string); ok {
			for _, p := range paths {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	},
}

func parseDateFlag(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v)
	}
	return &t, nil
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartTypesCmd)
	chartCmd.AddCommand(chartSensorsCmd)
	chartCmd.AddCommand(chartGenerateCmd)
	chartGenerateCmd.Flags().StringVarP(&chartType, "type", "t", "", "chart type id (see 'chart types')")
	chartGenerateCmd.Flags().StringSliceVarP(&chartSensors, "sensor", "s", nil, "sensor id (repeatable)")
	chartGenerateCmd.Flags().StringVar(&chartFrom, "from", "", "start date YYYY-MM-DD")
	chartGenerateCmd.Flags().StringVar(&chartTo, "to", "", "end date YYYY-MM-DD (inclusive)")
	chartGenerateCmd.Flags().StringVarP(&chartOutDir, "out", "o", "", "output directory (default: configured export dir)")
	_ = chartGenerateCmd.MarkFlagRequired("type")
	_ = chartGenerateCmd.MarkFlagRequired("sensor")
}
