package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/KaramelBytes/dataprep-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	logFormat   string
	traceFile   string
	metricsFile string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dataprep",
	Short: "dataprep: clean CSV/XLSX files and generate data reports",
	Long: `dataprep loads a .csv or .xlsx file, removes duplicate rows, imputes missing
values (median for numeric columns, most frequent value otherwise), converts
mixed-type columns to text, saves the result as cleaned_data.csv and renders
HTML profile and overview reports.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.SilenceErrors = true
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace-file", "", "write OpenTelemetry spans as JSON to this file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("log-format") && logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if f.Changed("trace-file") {
		cfg.TraceFile = traceFile
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}

	l, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Debug: debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l, _ = logging.New(logging.Options{Level: cfg.LogLevel, Debug: debug})
	}
	logger = l
}

// effectiveConfig returns the loaded config or the built-in defaults.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Default()
}

// parseDelimiter maps a flag or config value to a CSV delimiter rune.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab' | '|')", s)
	}
}
