package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcastell/legajo/internal/pipeline"
	"github.com/rcastell/legajo/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Scan every bundle in a directory and write reports",
	Long: `Batch scans all PDF bundles in a directory:
- Each bundle is OCRed, classified and grouped into patient records
- Bundles are processed in parallel with a configurable worker count
- One JSON report is written per bundle

Batch never writes patient folders; review the reports first, then run
'legajo split' per bundle.

Example:
  legajo batch ./lotes
  legajo batch ./lotes --concurrency 2 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "number of bundles processed in parallel")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./legajo-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 4*time.Hour, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the OCR text cache")
	batchCmd.Flags().IntVar(&ocrWorkers, "workers", 0, "concurrent OCR workers per bundle (0 = configured default)")
}

type batchResult struct {
	bundle string
	report string
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOCRFlags(cfg)

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	bundles, err := findBundles(dir)
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		return fmt.Errorf("no PDF bundles found in %s", dir)
	}
	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processing %d bundles with %d workers\n\n", len(bundles), batchConcurrency)

	scanner, _, err := buildScanner(cfg, log)
	if err != nil {
		return err
	}
	p := pipeline.New(scanner, nil, log)

	pool := worker.NewPool[batchResult](ctx, batchConcurrency)
	pool.Start()
	for _, bundle := range bundles {
		bundle := bundle
		pool.Submit(func(ctx context.Context) batchResult {
			report, err := p.Run(ctx, bundle)
			if err != nil {
				return batchResult{bundle: bundle, err: err}
			}

			name := strings.TrimSuffix(filepath.Base(bundle), filepath.Ext(bundle)) + ".json"
			path := filepath.Join(batchOutputDir, name)
			f, err := os.Create(path)
			if err != nil {
				return batchResult{bundle: bundle, err: err}
			}
			defer f.Close()
			if err := pipeline.RenderJSON(f, report, cfg.Output.IncludeText); err != nil {
				return batchResult{bundle: bundle, err: err}
			}
			return batchResult{bundle: bundle, report: path}
		})
	}
	results := pool.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].bundle < results[j].bundle })

	failures := 0
	for _, r := range results {
		if r.err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.bundle, r.err)
			continue
		}
		fmt.Fprintf(os.Stderr, "ok   %s -> %s\n", r.bundle, r.report)
	}

	fmt.Fprintf(os.Stderr, "\n%d bundles processed, %d failed\n", len(results), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d bundles failed", failures, len(results))
	}
	return nil
}

// findBundles lists PDF files in dir, sorted by name
func findBundles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var bundles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			bundles = append(bundles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(bundles)
	return bundles, nil
}
