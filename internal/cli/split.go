package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcastell/legajo/internal/extract"
	"github.com/rcastell/legajo/internal/llm"
	"github.com/rcastell/legajo/internal/pipeline"
)

var (
	splitControl      string
	splitOut          string
	splitHistoryStart int
	splitTimeout      time.Duration
	splitReview       bool
	llmEnabled        bool
	llmProvider       string
	llmModel          string
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split <bundle.pdf>",
	Short: "Split a bundle into per-patient folders",
	Long: `Split runs the full workflow: the control sheet is OCRed to create one
folder per microchip ID, the bundle's pages are classified and grouped
into patient records, and each record's pages are written into its
folder. Flagged records get a review prefix and an issues file.

With --review, flagged splits pause for interactive correction before
anything is written.

Example:
  legajo split lote_enero.pdf --control hoja_control.pdf --out ./salida --history-start 117
  legajo split lote_enero.pdf --control hoja_control.pdf --out ./salida --review
  legajo split lote_enero.pdf --control hoja_control.pdf --out ./salida --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVar(&splitControl, "control", "", "control sheet PDF with one microchip page per patient (required)")
	splitCmd.Flags().StringVar(&splitOut, "out", "./legajo-out", "output directory for patient folders")
	splitCmd.Flags().IntVar(&splitHistoryStart, "history-start", 1, "first clinic history number to assign")
	splitCmd.Flags().DurationVar(&splitTimeout, "timeout", time.Hour, "overall timeout")
	splitCmd.Flags().BoolVar(&splitReview, "review", false, "interactively review flagged records before extraction")
	splitCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the OCR text cache")
	splitCmd.Flags().IntVar(&ocrWorkers, "workers", 0, "concurrent OCR workers (0 = configured default)")

	// LLM flags
	splitCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate LLM review notes for flagged records")
	splitCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	splitCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")

	_ = splitCmd.MarkFlagRequired("control")
}

func runSplit(cmd *cobra.Command, args []string) error {
	bundle := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), splitTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOCRFlags(cfg)
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	} else {
		cfg.LLM.Provider = ""
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	scanner, engine, err := buildScanner(cfg, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(splitOut, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Step 1: control sheet -> one folder per microchip ID
	folders, err := extract.NewFolderManager(engine, log).
		CreateFolders(ctx, splitControl, splitOut, splitHistoryStart)
	if err != nil {
		return fmt.Errorf("control sheet processing failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Created %d patient folders from control sheet\n", len(folders))

	// Step 2: classify and group the bundle's pages
	var corrector pipeline.Corrector
	if splitReview {
		corrector = NewTerminalCorrector(os.Stdin, os.Stderr)
	}
	p := pipeline.New(scanner, corrector, log)
	p.SetLabels(folders)
	report, err := p.Run(ctx, bundle)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	pipeline.RenderText(os.Stderr, report)
	if len(report.Records) != len(folders) {
		fmt.Fprintf(os.Stderr, "Warning: found %d records but %d microchip folders; extracting the first %d\n",
			len(report.Records), len(folders), min(len(report.Records), len(folders)))
	}

	// Step 3: write each record into its folder
	extractor := extract.NewExtractor(cfg.Extraction, log)
	finalDirs, err := extractor.ExtractAll(bundle, splitOut, report.Records, folders)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	// Step 4: optional LLM review notes for flagged records
	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			return err
		}
		notes := llm.GenerateNotes(ctx, provider, report, log)
		for i, text := range notes {
			if i >= len(finalDirs) {
				continue
			}
			path := filepath.Join(finalDirs[i], "REVIEW_NOTES.txt")
			if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
				log.Warnw("could not write review notes", "path", path, "error", err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\nSplit complete: %d records written to %s\n", len(finalDirs), splitOut)
	return nil
}
