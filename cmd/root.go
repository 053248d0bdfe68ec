package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/climagraph/climagraph/internal/api"
	cfgpkg "github.com/climagraph/climagraph/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	jsonOut bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "climagraph",
	Short: "ClimaGraph: climate sensor files in, conservation charts out",
	Long: `ClimaGraph reads temperature and humidity exports from data loggers
(XLSX, CSV, TSV, HOBO), maps their columns onto sensor roles and renders
time series, amplitude and dew point risk charts as PNG files.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.climagraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fail later with a clearer message
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// newAPI builds the operation surface from the loaded configuration.
func newAPI() (*api.API, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return api.New(cfg)
}

// emit prints a successful result (or the whole result as JSON) and turns a
// failed one into the error the root command reports.
func emit(res api.Result) error {
	if jsonOut {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		if !res.Success {
			os.Exit(1)
		}
		return nil
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Printf("✓ %s\n", res.Message)
	return nil
}
