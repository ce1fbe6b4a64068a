package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/cache"
	"github.com/rcastell/legajo/internal/classify"
	"github.com/rcastell/legajo/internal/logger"
	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/ocr"
)

// loadConfig layers the config file and LEGAJO_* environment variables
// over the built-in defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg, nil
}

func newLogger() (*zap.SugaredLogger, error) {
	return logger.New(verbose)
}

// buildCache constructs the OCR text cache per configuration. Returns nil
// when caching is disabled.
func buildCache(cfg *model.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home directory: keep the cache in memory only
			return cache.NewMemoryCache(cfg.Cache.MemoryTTL), nil
		}
		dir = filepath.Join(home, ".legajo", "cache")
	}
	return cache.NewLayeredCache(dir, cfg.Cache.MemoryTTL, cfg.Cache.DiskTTL)
}

// buildScanner assembles the OCR engine, classifier and cache into a
// bundle scanner.
func buildScanner(cfg *model.Config, log *zap.SugaredLogger) (*ocr.Scanner, ocr.Engine, error) {
	c, err := buildCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := ocr.NewTesseractEngine(cfg.OCR)
	classifier := classify.NewClassifier(cfg.Indicators)
	scanner := ocr.NewScanner(engine, classifier, c, cfg.Cache.DiskTTL, cfg.OCR.Workers, log)
	return scanner, engine, nil
}
