package classify

import (
	"strings"

	"github.com/rcastell/legajo/internal/model"
)

// Classifier maps normalized page text to a document category.
// Classification is a pure function: no side effects, no failure modes;
// absence of a match is the valid CategoryUnclassified outcome.
type Classifier struct {
	categories []categoryIndicators
}

type categoryIndicators struct {
	category   model.Category
	indicators []string
}

// NewClassifier creates a classifier from configured indicator lists.
// Categories are evaluated in priority order: history, then identity,
// then bill; the first with at least one match wins.
func NewClassifier(cfg model.IndicatorConfig) *Classifier {
	return &Classifier{
		categories: []categoryIndicators{
			{model.CategoryHistory, cfg.History},
			{model.CategoryIdentity, cfg.Identity},
			{model.CategoryBill, cfg.Bill},
		},
	}
}

// Classify classifies a single page's OCR text
func (c *Classifier) Classify(text string) model.Classification {
	norm := Normalize(text)

	for _, ci := range c.categories {
		var matched []string
		for _, ind := range ci.indicators {
			if strings.Contains(norm, ind) {
				matched = append(matched, ind)
			}
		}
		if len(matched) > 0 {
			return model.Classification{
				Category:          ci.category,
				MatchedIndicators: matched,
				Confidence:        float64(len(matched)) / float64(len(ci.indicators)),
			}
		}
	}

	return model.Classification{Category: model.CategoryUnclassified}
}

// ClassifyPage builds a full page token from OCR text
func (c *Classifier) ClassifyPage(pageNumber int, text string) model.Page {
	res := c.Classify(text)
	return model.Page{
		PageNumber:        pageNumber,
		Category:          res.Category,
		MatchedIndicators: res.MatchedIndicators,
		Confidence:        res.Confidence,
		Text:              text,
	}
}
