package tools

import (
	"context"
	"math"
	"strings"
)

// Category levels by number of matched categories.
const (
	LevelMultiDomain   = "multi-domain"
	LevelCrossDomain   = "cross-domain"
	LevelSingleDomain  = "single-domain"
	LevelUncategorized = "uncategorized"
)

const generalCategory = "general"

// CategoryKeywords lists the keywords of one category. Order matters: on a
// score tie the later category becomes primary.
type CategoryKeywords struct {
	Name     string
	Keywords []string
}

var defaultCategories = []CategoryKeywords{
	{"technology", []string{"software", "hardware", "computer", "code", "program", "api", "data"}},
	{"business", []string{"company", "market", "customer", "sales", "revenue", "strategy"}},
	{"science", []string{"research", "study", "experiment", "theory", "hypothesis", "analysis"}},
	{"education", []string{"learn", "teach", "student", "school", "university", "course"}},
	{"health", []string{"medical", "health", "patient", "doctor", "treatment", "disease"}},
}

// KeywordCategoryResult is the result of keyword_category_model.
type KeywordCategoryResult struct {
	PrimaryCategory string             `json:"primaryCategory" jsonschema:"minLength=1"`
	Level           string             `json:"level" jsonschema:"enum=multi-domain,enum=cross-domain,enum=single-domain,enum=uncategorized"`
	Categories      []string           `json:"categories"`
	CategoryScores  map[string]float64 `json:"categoryScores"`
	Confidence      float64            `json:"confidence" jsonschema:"minimum=0,maximum=1"`
}

// KeywordClassifier scores text against keyword lists by substring match.
type KeywordClassifier struct {
	categories []CategoryKeywords
}

func NewKeywordClassifier(categories []CategoryKeywords) *KeywordClassifier {
	if len(categories) == 0 {
		categories = defaultCategories
	}
	lower := make([]CategoryKeywords, len(categories))
	for i, c := range categories {
		kws := make([]string, len(c.Keywords))
		for j, k := range c.Keywords {
			kws[j] = strings.ToLower(k)
		}
		lower[i] = CategoryKeywords{Name: c.Name, Keywords: kws}
	}
	return &KeywordClassifier{categories: lower}
}

// Classify returns matched categories with their share of matched keywords,
// rounded to two decimals.
func (c *KeywordClassifier) Classify(text string) KeywordCategoryResult {
	lower := strings.ToLower(text)

	res := KeywordCategoryResult{
		PrimaryCategory: generalCategory,
		Categories:      []string{},
		CategoryScores:  make(map[string]float64),
	}

	best := -1.0
	for _, cat := range c.categories {
		if len(cat.Keywords) == 0 {
			continue
		}
		matches := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		score := math.Round(float64(matches)/float64(len(cat.Keywords))*100) / 100
		res.CategoryScores[cat.Name] = score
		res.Categories = append(res.Categories, cat.Name)
		if score >= best {
			best = score
			res.PrimaryCategory = cat.Name
		}
	}

	switch n := len(res.Categories); {
	case n >= 3:
		res.Level = LevelMultiDomain
	case n == 2:
		res.Level = LevelCrossDomain
	case n == 1:
		res.Level = LevelSingleDomain
	default:
		res.Level = LevelUncategorized
	}

	res.Confidence = 0.25
	if len(res.Categories) > 0 {
		res.Confidence = 0.75
	}
	return res
}

// KeywordCategoryTool categorizes text locally without any remote call.
func KeywordCategoryTool(c *KeywordClassifier) Module {
	const name = "keyword_category_model"
	return Module{
		Descriptor: &Descriptor{
			Name:         name,
			Description:  "Categorizes text into hierarchical levels and identifies primary categories using keyword matching",
			Version:      "1.0.0",
			InputSchema:  DefaultInputSchema,
			OutputSchema: DefaultOutputSchema,
			ResultSchema: reflectContract(&KeywordCategoryResult{}),
		},
		Handler: func(_ context.Context, input map[string]any) (any, error) {
			text, err := requireText(input)
			if err != nil {
				return nil, err
			}
			return NewOutput(name, c.Classify(text)), nil
		},
	}
}
