// Package ocr turns scanned bundle pages into text and classifies them.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rcastell/legajo/internal/model"
)

// Engine recognizes the text of a single bundle page
type Engine interface {
	RecognizePage(ctx context.Context, pdfPath string, page int) (string, error)
}

// TesseractEngine runs Tesseract over the page's embedded scan image.
// Bundles are scanned documents, so each page carries one full-page image.
type TesseractEngine struct {
	languages []string
	dpi       int
}

// NewTesseractEngine creates an engine with the given OCR settings
func NewTesseractEngine(cfg model.OCRConfig) *TesseractEngine {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"spa"}
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &TesseractEngine{languages: langs, dpi: dpi}
}

// RecognizePage extracts the page's scan image and OCRs it
func (e *TesseractEngine) RecognizePage(ctx context.Context, pdfPath string, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := extractPageImage(pdfPath, page)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages %v: %w", e.languages, err)
	}
	if err := client.SetVariable("user_defined_dpi", strconv.Itoa(e.dpi)); err != nil {
		return "", fmt.Errorf("set dpi: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("load page %d image: %w", page, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", page, err)
	}
	return CleanText(text), nil
}

// extractPageImage pulls the embedded scan image for one page out of the
// PDF and returns its bytes.
func extractPageImage(pdfPath string, page int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "legajo-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pages := []string{strconv.Itoa(page)}
	if err := api.ExtractImagesFile(pdfPath, dir, pages, nil); err != nil {
		return nil, fmt.Errorf("extract image for page %d: %w", page, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("page %d has no embedded scan image", page)
	}

	// Scanned pages carry a single image; take the first one extracted
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		return nil, fmt.Errorf("read extracted image: %w", err)
	}
	return data, nil
}

// CleanText normalizes OCR output: trims trailing whitespace per line and
// collapses runs of blank lines.
func CleanText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
