package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(w, "session: %t\n", c.Session)
		fmt.Fprintf(w, "cleaned_file: %s\n", c.CleanedFile)
		fmt.Fprintf(w, "reports: %t\n", c.Reports)
		fmt.Fprintf(w, "delimiter: %q\n", c.Delimiter)
		if c.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(w, "sheet_index: %d\n", c.SheetIndex)
		fmt.Fprintf(w, "missing_tokens: %s\n", strings.Join(c.MissingTokens, ","))
		fmt.Fprintf(w, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(w, "outlier_threshold: %.2f\n", c.OutlierThreshold)
		fmt.Fprintf(w, "histogram_bins: %d\n", c.HistogramBins)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		if c.TraceFile != "" {
			fmt.Fprintf(w, "trace_file: %s\n", c.TraceFile)
		}
		if c.MetricsFile != "" {
			fmt.Fprintf(w, "metrics_file: %s\n", c.MetricsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := applySetting(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "session":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for session: %v", val)
		}
		c.Session = b
	case "cleaned_file":
		c.CleanedFile = val
	case "reports":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for reports: %v", val)
		}
		c.Reports = b
	case "delimiter":
		r, err := parseDelimiter(val)
		if err != nil {
			return err
		}
		c.Delimiter = string(r)
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for sheet_index: %v", val)
		}
		c.SheetIndex = i
	case "missing_tokens":
		var toks []string
		for _, t := range strings.Split(val, ",") {
			if t = strings.TrimSpace(t); t != "" {
				toks = append(toks, t)
			}
		}
		c.MissingTokens = toks
	case "sample_rows":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for sample_rows: %w", err)
		}
		c.SampleRows = i
	case "outlier_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for outlier_threshold: %w", err)
		}
		c.OutlierThreshold = f
	case "histogram_bins":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for histogram_bins: %w", err)
		}
		c.HistogramBins = i
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	case "trace_file":
		c.TraceFile = val
	case "metrics_file":
		c.MetricsFile = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
