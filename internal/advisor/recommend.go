package advisor

import "sort"

// topN is the number of ranked alternatives returned with a recommendation.
const topN = 3

// ScoredCrop is a crop with its fit score.
type ScoredCrop struct {
	Crop  string  `json:"crop"`
	Score float64 `json:"score"`
}

// Alternative is one ranked entry of a recommendation.
type Alternative struct {
	Crop                 string  `json:"crop"`
	Confidence           float64 `json:"confidence"`
	ConfidencePercentage float64 `json:"confidence_percentage"`
}

// Recommendation is the result of ranking every crop for a sample.
// Alternatives[0] is always the predicted crop itself.
type Recommendation struct {
	PredictedCrop        string         `json:"predicted_crop"`
	Confidence           float64        `json:"confidence"`
	ConfidencePercentage float64        `json:"confidence_percentage"`
	Alternatives         []Alternative  `json:"top_3_alternatives"`
	Advisory             []AdvisoryItem `json:"advisory"`
}

// Advisor ranks crops against a fixed rule set.
type Advisor struct {
	rules []CropRule
}

// NewAdvisor returns an Advisor over rules, or over the built-in table when
// none are given.
func NewAdvisor(rules ...CropRule) *Advisor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Advisor{rules: rules}
}

// Rank scores every crop and sorts descending. The sort is stable, so equal
// scores keep rule declaration order.
func (a *Advisor) Rank(s SoilSample) []ScoredCrop {
	out := make([]ScoredCrop, len(a.rules))
	for i, r := range a.rules {
		out[i] = ScoredCrop{Crop: r.Crop, Score: Score(r, s)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Recommend picks the best crop for s, its top alternatives, and advisory
// notes for the picked crop. It never fails; out-of-range inputs just score
// lower. An Advisor without rules returns the zero Recommendation with the
// advisory still populated.
func (a *Advisor) Recommend(s SoilSample) Recommendation {
	ranked := a.Rank(s)
	n := topN
	if len(ranked) < n {
		n = len(ranked)
	}

	rec := Recommendation{Alternatives: make([]Alternative, 0, n)}
	for _, sc := range ranked[:n] {
		rec.Alternatives = append(rec.Alternatives, Alternative{
			Crop:                 sc.Crop,
			Confidence:           sc.Score,
			ConfidencePercentage: sc.Score * 100,
		})
	}
	if n > 0 {
		rec.PredictedCrop = ranked[0].Crop
		rec.Confidence = ranked[0].Score
		rec.ConfidencePercentage = ranked[0].Score * 100
	}
	rec.Advisory = Advise(rec.PredictedCrop, s)
	return rec
}

var defaultAdvisor = NewAdvisor()

// Recommend runs the built-in rule table against s.
func Recommend(s SoilSample) Recommendation { return defaultAdvisor.Recommend(s) }
