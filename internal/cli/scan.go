package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/pipeline"
)

var (
	scanJSON        string
	scanIncludeText bool
	scanTimeout     time.Duration
	noCache         bool
	ocrWorkers      int
	ocrLanguages    []string
	ocrDPI          int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <bundle.pdf>",
	Short: "Classify a bundle's pages and report the resulting records",
	Long: `Scan OCRs every page of the bundle, classifies it, repairs ambiguous
classifications from page context and reports how the pages would be
grouped into patient records. Nothing is written besides the report;
use 'legajo split' to produce the patient folders.

Example:
  legajo scan lote_enero.pdf
  legajo scan lote_enero.pdf --json report.json --include-text
  legajo scan lote_enero.pdf --workers 8 --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanJSON, "json", "", "write JSON report to this path")
	scanCmd.Flags().BoolVar(&scanIncludeText, "include-text", false, "keep full OCR text in the JSON report")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Minute, "overall scan timeout")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the OCR text cache")
	scanCmd.Flags().IntVar(&ocrWorkers, "workers", 0, "concurrent OCR workers (0 = configured default)")
	scanCmd.Flags().StringSliceVar(&ocrLanguages, "lang", nil, "Tesseract language hints")
	scanCmd.Flags().IntVar(&ocrDPI, "dpi", 0, "OCR resolution hint (0 = configured default)")
}

func runScan(cmd *cobra.Command, args []string) error {
	bundle := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
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

	scanner, _, err := buildScanner(cfg, log)
	if err != nil {
		return err
	}

	p := pipeline.New(scanner, nil, log)
	report, err := p.Run(ctx, bundle)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	pipeline.RenderText(os.Stdout, report)

	if scanJSON != "" {
		f, err := os.Create(scanJSON)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		if err := pipeline.RenderJSON(f, report, scanIncludeText || cfg.Output.IncludeText); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", scanJSON)
	}
	return nil
}

// applyOCRFlags overrides configuration with explicit CLI flags
func applyOCRFlags(cfg *model.Config) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if ocrWorkers > 0 {
		cfg.OCR.Workers = ocrWorkers
	}
	if len(ocrLanguages) > 0 {
		cfg.OCR.Languages = ocrLanguages
	}
	if ocrDPI > 0 {
		cfg.OCR.DPI = ocrDPI
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}
