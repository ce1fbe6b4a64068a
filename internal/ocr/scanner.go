package ocr

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/cache"
	"github.com/rcastell/legajo/internal/classify"
	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/worker"
)

// Scanner OCRs every page of a bundle concurrently and classifies the
// recognized text.
type Scanner struct {
	engine     Engine
	classifier *classify.Classifier
	cache      cache.Cache
	cacheTTL   time.Duration
	workers    int
	log        *zap.SugaredLogger
	pageCount  func(path string) (int, error)
}

// NewScanner creates a scanner. cache may be nil to disable caching.
func NewScanner(engine Engine, classifier *classify.Classifier, c cache.Cache, cacheTTL time.Duration, workers int, log *zap.SugaredLogger) *Scanner {
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{
		engine:     engine,
		classifier: classifier,
		cache:      c,
		cacheTTL:   cacheTTL,
		workers:    workers,
		log:        log,
		pageCount:  api.PageCountFile,
	}
}

type pageResult struct {
	page model.Page
	err  error
}

// Scan recognizes and classifies every page of the bundle. Any page that
// fails OCR fails the whole scan; a bundle with unreadable pages cannot be
// split safely.
func (s *Scanner) Scan(ctx context.Context, pdfPath string) ([]model.Page, error) {
	total, err := s.pageCount(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("count pages of %s: %w", pdfPath, err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%s has no pages", pdfPath)
	}

	contentHash := ""
	if s.cache != nil {
		contentHash, err = cache.HashFile(pdfPath)
		if err != nil {
			s.log.Warnw("cache disabled for this run", "error", err)
		}
	}

	s.log.Infow("scanning bundle", "path", pdfPath, "pages", total, "workers", s.workers)

	pool := worker.NewPool[pageResult](ctx, s.workers)
	pool.Start()
	for p := 1; p <= total; p++ {
		page := p
		pool.Submit(func(ctx context.Context) pageResult {
			return s.scanPage(ctx, pdfPath, contentHash, page)
		})
	}
	results := pool.Wait()

	if len(results) != total {
		return nil, fmt.Errorf("scan interrupted: %d of %d pages processed", len(results), total)
	}

	pages := make([]model.Page, 0, total)
	for _, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("page %d: %w", r.page.PageNumber, r.err)
		}
		pages = append(pages, r.page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })

	return pages, nil
}

func (s *Scanner) scanPage(ctx context.Context, pdfPath, contentHash string, page int) pageResult {
	text, hit := s.cachedText(contentHash, page)
	if !hit {
		var err error
		text, err = s.engine.RecognizePage(ctx, pdfPath, page)
		if err != nil {
			return pageResult{page: model.Page{PageNumber: page}, err: err}
		}
		s.storeText(contentHash, page, text)
	}

	p := s.classifier.ClassifyPage(page, text)
	s.log.Debugw("page classified",
		"page", page,
		"category", p.Category,
		"indicators", len(p.MatchedIndicators),
		"cached", hit,
	)
	return pageResult{page: p}
}

func (s *Scanner) cachedText(contentHash string, page int) (string, bool) {
	if s.cache == nil || contentHash == "" {
		return "", false
	}
	data, found := s.cache.Get(cache.PageKey(contentHash, page))
	if !found {
		return "", false
	}
	return string(data), true
}

func (s *Scanner) storeText(contentHash string, page int, text string) {
	if s.cache == nil || contentHash == "" {
		return
	}
	if err := s.cache.Set(cache.PageKey(contentHash, page), []byte(text), s.cacheTTL); err != nil {
		s.log.Warnw("cache write failed", "page", page, "error", err)
	}
}
