package advisor

import "strings"

const (
	defaultBaseYield        = 2.5
	defaultSeasonMultiplier = 1.0
)

// baseYields is tons per hectare, keyed by lower-cased crop name.
var baseYields = map[string]float64{
	"rice":      4.5,
	"wheat":     3.2,
	"maize":     3.8,
	"cotton":    1.8,
	"sugarcane": 75.0,
	"chickpea":  1.5,
	"potato":    25.0,
	"tomato":    30.0,
	"onion":     20.0,
	"banana":    40.0,
}

// seasonMultipliers is keyed by the exact season label. Lookups are
// case-sensitive: "kharif" is not "Kharif" and falls back to the default.
var seasonMultipliers = map[string]float64{
	"Kharif": 1.1,
	"Rabi":   1.0,
	"Summer": 0.9,
}

// Seasons lists the recognized season labels.
func Seasons() []string { return []string{"Kharif", "Rabi", "Summer"} }

// YieldInput describes a planned planting.
type YieldInput struct {
	Crop     string  `json:"crop"`
	Season   string  `json:"season"`
	Area     float64 `json:"area"`
	Year     int     `json:"year,omitempty"`
	District string  `json:"district,omitempty"`
}

// YieldEstimate is the projected yield for a YieldInput.
type YieldEstimate struct {
	PredictedProduction float64 `json:"predicted_production"`
	PredictedYield      float64 `json:"predicted_yield"`
	Area                float64 `json:"area"`
	Crop                string  `json:"crop"`
	Season              string  `json:"season"`
	District            string  `json:"district"`
	Year                int     `json:"year,omitempty"`
}

// BaseYield returns the per-hectare base yield for crop (case-insensitive)
// and whether the crop was recognized.
func BaseYield(crop string) (float64, bool) {
	v, ok := baseYields[strings.ToLower(crop)]
	if !ok {
		return defaultBaseYield, false
	}
	return v, true
}

// SeasonMultiplier returns the multiplier for an exact season label and
// whether the label was recognized.
func SeasonMultiplier(season string) (float64, bool) {
	v, ok := seasonMultipliers[season]
	if !ok {
		return defaultSeasonMultiplier, false
	}
	return v, true
}

// EstimateYield computes base yield × season multiplier and scales it by
// area. Area is not validated here.
func EstimateYield(in YieldInput) YieldEstimate {
	base, _ := BaseYield(in.Crop)
	mult, _ := SeasonMultiplier(in.Season)
	perArea := base * mult
	return YieldEstimate{
		PredictedProduction: perArea * in.Area,
		PredictedYield:      perArea,
		Area:                in.Area,
		Crop:                strings.ToLower(in.Crop),
		Season:              in.Season,
		District:            in.District,
		Year:                in.Year,
	}
}
