package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/ocr"
)

// Microchip IDs are 15 digits. OCR often splits them across whitespace or
// drops the marker word's punctuation, so matching is forgiving.
var (
	microchipRe   = regexp.MustCompile(`microchip\s*(?:no?\s*)?(\d+(?:\s+\d+)*)`)
	fifteenRe     = regexp.MustCompile(`\d{15}`)
	splitDigitsRe = regexp.MustCompile(`(\d{9})\s+(\d{6})`)
	whitespaceRe  = regexp.MustCompile(`\s`)
)

// ExtractMicrochipID finds the 15-digit microchip ID in control sheet text
func ExtractMicrochipID(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty control sheet text")
	}
	normalized := strings.ToLower(text)

	if m := microchipRe.FindStringSubmatch(normalized); m != nil {
		digits := whitespaceRe.ReplaceAllString(m[1], "")
		if ValidMicrochipID(digits) {
			return digits, nil
		}
		// Tolerate stray digits before or after the ID
		if id := fifteenRe.FindString(digits); id != "" {
			return id, nil
		}
		if digits != "" {
			return digits, nil
		}
	}

	// Look near the marker word when the digit group did not follow it
	// directly
	if pos := strings.Index(normalized, "microchip"); pos >= 0 {
		start := pos - 500
		if start < 0 {
			start = 0
		}
		end := pos + 500
		if end > len(normalized) {
			end = len(normalized)
		}
		window := normalized[start:end]

		if id := fifteenRe.FindString(window); id != "" {
			return id, nil
		}
		if m := splitDigitsRe.FindStringSubmatch(window); m != nil {
			combined := m[1] + m[2]
			if ValidMicrochipID(combined) {
				return combined, nil
			}
		}
	}

	return "", fmt.Errorf("microchip ID not found")
}

// ValidMicrochipID reports whether id is exactly 15 digits
func ValidMicrochipID(id string) bool {
	if len(id) != 15 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FolderName builds the patient folder name from the clinic history number
// and the microchip ID
func FolderName(clinicHistory int, microchipID string) string {
	return fmt.Sprintf("HC_%d_UN_%s", clinicHistory, microchipID)
}

var invalidFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)

// CleanName makes a string safe for filesystem use
func CleanName(name string) string {
	cleaned := invalidFilenameRe.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}

// FolderManager OCRs the control sheet and creates one folder per
// microchip ID found.
type FolderManager struct {
	engine ocr.Engine
	log    *zap.SugaredLogger
}

// NewFolderManager creates a folder manager
func NewFolderManager(engine ocr.Engine, log *zap.SugaredLogger) *FolderManager {
	return &FolderManager{engine: engine, log: log}
}

// CreateFolders reads the control sheet page by page, extracts microchip
// IDs and creates `HC_<n>_UN_<id>` folders under outDir, copying each
// control page into its folder. Pages without a readable ID are skipped;
// the clinic history number only advances on success.
func (m *FolderManager) CreateFolders(ctx context.Context, controlPath, outDir string, historyStart int) ([]string, error) {
	total, err := api.PageCountFile(controlPath)
	if err != nil {
		return nil, fmt.Errorf("count control sheet pages: %w", err)
	}
	m.log.Infow("processing control sheet", "path", controlPath, "pages", total)

	var folders []string
	history := historyStart
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := m.engine.RecognizePage(ctx, controlPath, page)
		if err != nil {
			m.log.Warnw("control sheet page skipped", "page", page, "error", err)
			continue
		}

		id, err := ExtractMicrochipID(text)
		if err != nil {
			m.log.Warnw("no microchip ID on control sheet page", "page", page)
			continue
		}
		m.log.Infow("microchip ID found", "page", page, "id", id)

		name := FolderName(history, id)
		dir := filepath.Join(outDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create folder %s: %w", dir, err)
		}

		target := filepath.Join(dir, fileControl)
		if err := api.CollectFile(controlPath, target, []string{strconv.Itoa(page)}, nil); err != nil {
			m.log.Warnw("control sheet page copy failed", "page", page, "id", id, "error", err)
		}

		folders = append(folders, name)
		history++
	}

	if len(folders) == 0 {
		return nil, fmt.Errorf("no microchip IDs found in %s", controlPath)
	}
	return folders, nil
}
