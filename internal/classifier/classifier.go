// Package classifier implements keyword-based expense categorization with a
// learned-frequency fallback.
package classifier

import (
	"strings"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/taxonomy"
)

// TrainingSource provides user-confirmed examples for the fallback predictor.
type TrainingSource interface {
	TrainingExamples() []model.TrainingExample
}

// Classifier assigns a category id to free-text expense descriptions.
type Classifier struct {
	categories []model.Category
	training   TrainingSource
}

// New creates a classifier over the fixed taxonomy. training may be nil,
// in which case unmatched text falls straight through to the fallback
// category.
func New(training TrainingSource) *Classifier {
	return &Classifier{
		categories: taxonomy.Categories(),
		training:   training,
	}
}

// Categorize returns the category id for the given text. It always returns
// a valid id: the first taxonomy category with a keyword substring match,
// else the training-store prediction, else the fallback category.
//
// Taxonomy declaration order is the priority order. If keywords from two
// categories both appear in the text, the earlier category wins.
func (c *Classifier) Categorize(text string) string {
	folded := strings.ToLower(text)

	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(folded, kw) {
				return cat.ID
			}
		}
	}

	if c.training != nil {
		if id, ok := predictFromTraining(folded, c.training.TrainingExamples()); ok {
			return id
		}
	}

	return model.FallbackCategoryID
}

// predictFromTraining scores categories by token overlap against stored
// examples. Every whitespace token of length > 2 that is a substring of an
// example's description adds one point to that example's category. The
// strictly highest score wins; ties keep the first category to reach the
// maximum, which makes the result stable with respect to training-data
// insertion order. A zero top score yields no prediction.
func predictFromTraining(folded string, examples []model.TrainingExample) (string, bool) {
	if len(examples) == 0 {
		return "", false
	}

	tokens := strings.Fields(folded)
	scores := make(map[string]int)
	var best string
	bestScore := 0

	for _, ex := range examples {
		for _, tok := range tokens {
			if len(tok) <= 2 {
				continue
			}
			if strings.Contains(ex.Description, tok) {
				scores[ex.Category]++
				if scores[ex.Category] > bestScore {
					bestScore = scores[ex.Category]
					best = ex.Category
				}
			}
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return best, true
}
