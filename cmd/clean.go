package cmd

import (
	"context"
	"log/slog"

	cfgpkg "github.com/KaramelBytes/dataprep-cli/internal/config"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/pipeline"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
	"github.com/KaramelBytes/dataprep-cli/internal/telemetry"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cleanOutDir     string
	cleanSession    bool
	cleanSheetName  string
	cleanSheetIndex int
	cleanDelimiter  string
	cleanNoReports  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a CSV/XLSX file and generate reports",
	Long: `Load a .csv or .xlsx file, drop duplicate rows, impute missing values,
convert mixed-type columns to text, write cleaned_data.csv and render the
profile and overview HTML reports into the output directory.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		f := cmd.Flags()

		outDir := c.OutputDir
		if f.Changed("out-dir") {
			outDir = cleanOutDir
		}
		outDir, err := utils.ExpandHome(outDir)
		if err != nil {
			return err
		}
		lopt, err := loaderOptions(f, c, cleanDelimiter, cleanSheetName, cleanSheetIndex)
		if err != nil {
			return err
		}

		session := c.Session
		if f.Changed("session") {
			session = cleanSession
		}

		runner, done, err := newRunner(c, pipeline.WriterNotifier(cmd.OutOrStdout()), !cleanNoReports)
		if err != nil {
			return err
		}
		defer done()

		_, err = runner.Run(cmd.Context(), pipeline.Input{
			Path:        args[0],
			OutputDir:   outDir,
			Session:     session,
			CleanedFile: c.CleanedFile,
			Loader:      lopt,
		})
		return err
	},
}

// loaderOptions resolves loader settings from config, letting changed flags win.
func loaderOptions(f *pflag.FlagSet, c *cfgpkg.Global, delimFlag, sheetName string, sheetIndex int) (loader.Options, error) {
	delimStr := c.Delimiter
	if f.Changed("delimiter") {
		delimStr = delimFlag
	}
	delim, err := parseDelimiter(delimStr)
	if err != nil {
		return loader.Options{}, err
	}
	opt := loader.Options{
		Delimiter:     delim,
		SheetName:     c.SheetName,
		SheetIndex:    c.SheetIndex,
		MissingTokens: c.MissingTokens,
		Logger:        logger,
	}
	if f.Changed("sheet-name") {
		opt.SheetName = sheetName
	}
	if f.Changed("sheet-index") {
		opt.SheetIndex = sheetIndex
	}
	return opt, nil
}

// newRunner builds a pipeline runner with telemetry from c. The returned
// func flushes telemetry and must be called once the runner is done.
func newRunner(c *cfgpkg.Global, n pipeline.Notifier, reports bool) (*pipeline.Runner, func(), error) {
	providers, err := telemetry.Init(telemetry.Config{TraceFile: c.TraceFile, MetricsFile: c.MetricsFile}, logger)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	metrics, err := telemetry.NewPipelineMetrics(providers.Meter)
	if err != nil {
		done()
		return nil, nil, err
	}

	runner := pipeline.NewRunner(n, logger)
	runner.Tracer = providers.Tracer
	runner.Metrics = metrics
	runner.HeadRows = c.SampleRows
	runner.Reporters = nil
	if c.Reports && reports {
		prof := report.NewProfileReporter()
		prof.Options.OutlierThreshold = c.OutlierThreshold
		prof.Options.HistogramBins = c.HistogramBins
		ov := report.NewOverviewReporter()
		ov.HistogramBins = c.HistogramBins
		runner.Reporters = []report.Reporter{prof, ov}
	}
	return runner, done, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutDir, "out-dir", "o", "", "directory for cleaned_data.csv and reports (overrides config)")
	cleanCmd.Flags().BoolVar(&cleanSession, "session", false, "write into a fresh <out-dir>/<run-id> directory (--session=false overrides config)")
	cleanCmd.Flags().StringVar(&cleanSheetName, "sheet-name", "", "XLSX: sheet name to load")
	cleanCmd.Flags().IntVar(&cleanSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cleanCmd.Flags().StringVar(&cleanDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	cleanCmd.Flags().BoolVar(&cleanNoReports, "no-reports", false, "skip HTML report generation")
}
