// Package advisor implements the crop recommendation and yield estimation
// logic. It is a deterministic rule engine: every crop carries an acceptable
// range for each soil/climate factor and samples are scored by how close they
// fall to those ranges. There is no statistical model behind it.
//
// The package is pure (no I/O, no logging) and safe for concurrent use; the
// rule table is copied on access and never mutated.
package advisor

// Factor names a scored soil or climate measurement. The string values match
// the keys used by the rule table and, except for Temp, the JSON keys of
// SoilSample.
type Factor string

const (
	FactorN        Factor = "N"
	FactorP        Factor = "P"
	FactorK        Factor = "K"
	FactorPH       Factor = "ph"
	FactorTemp     Factor = "temp"
	FactorHumidity Factor = "humidity"
	FactorRainfall Factor = "rainfall"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

// FactorRange binds a Range to the factor it constrains.
type FactorRange struct {
	Factor Factor `json:"factor"`
	Range
}

// CropRule is the acceptable range of every factor for a single crop.
// Ranges keep declaration order so scoring iterates deterministically.
type CropRule struct {
	Crop   string        `json:"crop"`
	Ranges []FactorRange `json:"ranges"`
}

// RangeFor returns the range declared for f, if any.
func (r CropRule) RangeFor(f Factor) (Range, bool) {
	for _, fr := range r.Ranges {
		if fr.Factor == f {
			return fr.Range, true
		}
	}
	return Range{}, false
}

// rule is a compact constructor used by the static table below.
func rule(crop string, n, p, k, ph, temp, humidity, rainfall [2]float64) CropRule {
	return CropRule{
		Crop: crop,
		Ranges: []FactorRange{
			{FactorN, Range{n[0], n[1]}},
			{FactorP, Range{p[0], p[1]}},
			{FactorK, Range{k[0], k[1]}},
			{FactorPH, Range{ph[0], ph[1]}},
			{FactorTemp, Range{temp[0], temp[1]}},
			{FactorHumidity, Range{humidity[0], humidity[1]}},
			{FactorRainfall, Range{rainfall[0], rainfall[1]}},
		},
	}
}

// defaultRules is the knowledge base. Order matters: it breaks score ties.
var defaultRules = []CropRule{
	rule("rice", [2]float64{80, 120}, [2]float64{40, 60}, [2]float64{40, 60}, [2]float64{5.5, 7.0}, [2]float64{20, 35}, [2]float64{70, 95}, [2]float64{1000, 3000}),
	rule("maize", [2]float64{70, 110}, [2]float64{30, 50}, [2]float64{30, 50}, [2]float64{6.0, 7.5}, [2]float64{15, 35}, [2]float64{60, 90}, [2]float64{500, 1500}),
	rule("wheat", [2]float64{100, 140}, [2]float64{50, 70}, [2]float64{50, 70}, [2]float64{6.0, 7.5}, [2]float64{10, 25}, [2]float64{50, 80}, [2]float64{300, 800}),
	rule("chickpea", [2]float64{20, 40}, [2]float64{40, 60}, [2]float64{30, 50}, [2]float64{6.0, 7.5}, [2]float64{15, 30}, [2]float64{60, 85}, [2]float64{300, 600}),
	rule("cotton", [2]float64{100, 140}, [2]float64{40, 60}, [2]float64{40, 60}, [2]float64{6.0, 8.0}, [2]float64{20, 35}, [2]float64{50, 80}, [2]float64{500, 1200}),
	rule("sugarcane", [2]float64{120, 140}, [2]float64{50, 80}, [2]float64{60, 80}, [2]float64{6.0, 7.5}, [2]float64{20, 35}, [2]float64{70, 95}, [2]float64{1000, 2500}),
	rule("tomato", [2]float64{80, 120}, [2]float64{60, 80}, [2]float64{50, 70}, [2]float64{6.0, 7.0}, [2]float64{15, 30}, [2]float64{60, 85}, [2]float64{400, 800}),
	rule("potato", [2]float64{80, 120}, [2]float64{50, 70}, [2]float64{60, 80}, [2]float64{5.5, 6.5}, [2]float64{15, 25}, [2]float64{60, 85}, [2]float64{500, 1000}),
	rule("onion", [2]float64{60, 100}, [2]float64{40, 60}, [2]float64{50, 70}, [2]float64{6.0, 7.5}, [2]float64{15, 30}, [2]float64{60, 80}, [2]float64{300, 700}),
	rule("banana", [2]float64{100, 140}, [2]float64{50, 80}, [2]float64{80, 120}, [2]float64{5.5, 7.0}, [2]float64{25, 35}, [2]float64{75, 95}, [2]float64{1000, 2000}),
}

// DefaultRules returns a deep copy of the built-in rule table in declaration
// order. Callers may modify the result freely.
func DefaultRules() []CropRule {
	out := make([]CropRule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = CropRule{Crop: r.Crop, Ranges: append([]FactorRange(nil), r.Ranges...)}
	}
	return out
}

// RuleFor looks up the built-in rule for crop by exact name.
func RuleFor(crop string) (CropRule, bool) {
	for _, r := range defaultRules {
		if r.Crop == crop {
			return CropRule{Crop: r.Crop, Ranges: append([]FactorRange(nil), r.Ranges...)}, true
		}
	}
	return CropRule{}, false
}

// RecommendableCrops lists the crops covered by the rule table.
func RecommendableCrops() []string {
	out := make([]string, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = r.Crop
	}
	return out
}
