package advisor

// SoilSample is a single soil and climate reading. JSON keys follow the
// client payload (upper-case nutrient keys).
type SoilSample struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	PH          float64 `json:"ph"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// Value returns the sample value for a factor. The rule table calls
// temperature "temp"; it is mapped here.
func (s SoilSample) Value(f Factor) (float64, bool) {
	switch f {
	case FactorN:
		return s.N, true
	case FactorP:
		return s.P, true
	case FactorK:
		return s.K, true
	case FactorPH:
		return s.PH, true
	case FactorTemp:
		return s.Temperature, true
	case FactorHumidity:
		return s.Humidity, true
	case FactorRainfall:
		return s.Rainfall, true
	}
	return 0, false
}

// Score returns how well s fits rule, in [0, 1].
//
// Each factor present in both contributes 1 when inside its range and a
// linear decay otherwise: 1 - distance/bound, floored at 0, where bound is the
// violated min or max. The result is the mean over the considered factors;
// a rule with no applicable factors scores 0.
func Score(rule CropRule, s SoilSample) float64 {
	var total float64
	var n int
	for _, fr := range rule.Ranges {
		v, ok := s.Value(fr.Factor)
		if !ok {
			continue
		}
		n++
		switch {
		case fr.Contains(v):
			total += 1.0
		case v < fr.Min:
			total += decay(fr.Min-v, fr.Min)
		default:
			total += decay(v-fr.Max, fr.Max)
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// ScoreCrop scores s against the built-in rule for crop. Crops outside the
// rule table score 0.
func ScoreCrop(crop string, s SoilSample) float64 {
	r, ok := RuleFor(crop)
	if !ok {
		return 0
	}
	return Score(r, s)
}

// decay is max(0, 1 - dist/bound). A non-positive bound yields 0 so that a
// zero range edge can never divide by zero.
func decay(dist, bound float64) float64 {
	if bound <= 0 {
		return 0
	}
	v := 1 - dist/bound
	if v < 0 {
		return 0
	}
	return v
}
