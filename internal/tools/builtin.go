package tools

// Default upstream endpoints of the built-in scoring tools.
const (
	DefaultImpactURL        = "https://ClergeF-Impact-Rating-API.hf.space/rate"
	DefaultCategoryLevelURL = "https://ClergeF-Category-Level-API.hf.space/rate"
)

// CategoryLevelFields are the scores returned by category_level_model.
var CategoryLevelFields = []string{
	"education",
	"innovation",
	"faith_spirituality",
	"business",
	"family_history",
	"community",
	"health",
}

// Deps carries what the built-in tools need.
type Deps struct {
	Scorer           Scorer
	ImpactURL        string
	CategoryLevelURL string
	// Completer is nil when no language model is configured; sentiment_model
	// is then left out.
	Completer  Completer
	Classifier *KeywordClassifier
}

// Builtin returns the compiled-in tool candidates in registration order.
func Builtin(d Deps) []Candidate {
	classifier := d.Classifier
	if classifier == nil {
		classifier = NewKeywordClassifier(nil)
	}

	out := []Candidate{
		{
			Ref: "builtin:action_impact_model",
			Load: func() (Module, error) {
				return UpstreamTool(UpstreamSpec{
					Name:        "action_impact_model",
					Description: "Rates the impact level of actions using the Impact Rating API",
					Version:     "1.1.0",
					API:         "Impact Rating",
					Endpoint:    orDefault(d.ImpactURL, DefaultImpactURL),
					Fields:      []string{"impact"},
				}, d.Scorer), nil
			},
		},
		{
			Ref: "builtin:category_level_model",
			Load: func() (Module, error) {
				return UpstreamTool(UpstreamSpec{
					Name:        "category_level_model",
					Description: "Scores text across life categories using the Category Level API",
					Version:     "1.0.0",
					API:         "Category Level",
					Endpoint:    orDefault(d.CategoryLevelURL, DefaultCategoryLevelURL),
					Fields:      CategoryLevelFields,
				}, d.Scorer), nil
			},
		},
		{
			Ref: "builtin:keyword_category_model",
			Load: func() (Module, error) {
				return KeywordCategoryTool(classifier), nil
			},
		},
	}

	if d.Completer != nil {
		out = append(out, Candidate{
			Ref: "builtin:sentiment_model",
			Load: func() (Module, error) {
				return SentimentTool(d.Completer), nil
			},
		})
	}
	return out
}
