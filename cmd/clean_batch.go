package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/KaramelBytes/dataprep-cli/internal/pipeline"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cbOutDir     string
	cbDelimiter  string
	cbSheetName  string
	cbSheetIndex int
	cbNoReports  bool
	cbQuiet      bool
	cbKeepGoing  bool
	cbJobs       int
)

var cleanBatchCmd = &cobra.Command{
	Use:   "clean-batch <files...>",
	Short: "Clean multiple CSV/XLSX files, one session directory per file",
	Long: `Expand the given paths and glob patterns, then clean each file in sorted
order. Every file gets its own <out-dir>/<run-id> directory so outputs never
overwrite each other. Use 'dataprep runs' to list the results.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		c := effectiveConfig()
		f := cmd.Flags()
		outDir := c.OutputDir
		if f.Changed("out-dir") {
			outDir = cbOutDir
		}
		outDir, err = utils.ExpandHome(outDir)
		if err != nil {
			return err
		}
		lopt, err := loaderOptions(f, c, cbDelimiter, cbSheetName, cbSheetIndex)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		var n pipeline.Notifier = pipeline.WriterNotifier(w)
		if cbQuiet {
			n = pipeline.NotifierFunc(func(string) {})
		}
		runner, done, err := newRunner(c, n, !cbNoReports)
		if err != nil {
			return err
		}
		defer done()

		total := len(files)
		jobs := cbJobs
		if jobs < 1 {
			jobs = 1
		}
		var (
			mu     sync.Mutex
			failed []string
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		for i, path := range files {
			// Parallel runs buffer their status lines and print them as one block.
			r := *runner
			rec := &pipeline.Recorder{}
			if jobs > 1 && !cbQuiet {
				r.Notifier = rec
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				if !cbQuiet && jobs == 1 {
					fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
				}
				out, err := r.Run(ctx, pipeline.Input{
					Path:        path,
					OutputDir:   outDir,
					Session:     true,
					CleanedFile: c.CleanedFile,
					Loader:      lopt,
				})
				mu.Lock()
				defer mu.Unlock()
				if jobs > 1 && !cbQuiet {
					fmt.Fprintf(w, "[%d/%d] Processed %s\n", i+1, total, filepath.Base(path))
					for _, msg := range rec.Messages() {
						fmt.Fprintln(w, msg)
					}
				}
				if err != nil {
					if !cbKeepGoing {
						return fmt.Errorf("%s: %w", path, err)
					}
					failed = append(failed, path)
					return nil
				}
				if !cbQuiet {
					fmt.Fprintf(w, "✓ %s -> %s\n", filepath.Base(path), out.Dir)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(failed) > 0 {
			sort.Strings(failed)
			return fmt.Errorf("%d of %d files failed: %v", len(failed), total, failed)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(cleanBatchCmd)
	cleanBatchCmd.Flags().StringVarP(&cbOutDir, "out-dir", "o", "", "root directory for per-file session directories (overrides config)")
	cleanBatchCmd.Flags().StringVar(&cbDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	cleanBatchCmd.Flags().StringVar(&cbSheetName, "sheet-name", "", "XLSX: sheet name to load")
	cleanBatchCmd.Flags().IntVar(&cbSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cleanBatchCmd.Flags().BoolVar(&cbNoReports, "no-reports", false, "skip HTML report generation")
	cleanBatchCmd.Flags().BoolVar(&cbQuiet, "quiet", false, "suppress progress and status output")
	cleanBatchCmd.Flags().BoolVar(&cbKeepGoing, "keep-going", false, "continue with remaining files after a failure")
	cleanBatchCmd.Flags().IntVarP(&cbJobs, "jobs", "j", 1, "number of files to clean in parallel")
}
