package advisor

import "fmt"

// AdvisoryType categorizes an advisory item.
type AdvisoryType string

const (
	AdvisoryIrrigation AdvisoryType = "irrigation"
	AdvisoryFertilizer AdvisoryType = "fertilizer"
	AdvisoryPest       AdvisoryType = "pest"
)

// AdvisoryItem is a canned piece of farming advice.
type AdvisoryItem struct {
	Type        AdvisoryType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
}

const (
	lowRainfallMM   = 200
	lowNitrogen     = 50
	lowPhosphorus   = 20
	defaultPestTip  = "Regular field inspection recommended. Use organic pesticides when necessary"
	irrigationTitle = "Irrigation"
	fertilizerTitle = "Fertilizer"
	pestTitle       = "Pest Control"
)

var pestTips = map[string]string{
	"rice":     "Monitor for stem borer and brown planthopper. Use pheromone traps",
	"wheat":    "Watch for aphids and rust diseases. Apply fungicides if needed",
	"maize":    "Check for fall armyworm. Use biological control agents",
	"cotton":   "Monitor for bollworm and whitefly. Use integrated pest management",
	"tomato":   "Watch for fruit borer and early blight. Use resistant varieties",
	"potato":   "Monitor for late blight and Colorado potato beetle",
	"chickpea": "Check for pod borer and wilt disease. Use resistant varieties",
}

// Advise returns exactly three items for crop, always in the order
// irrigation, fertilizer, pest.
func Advise(crop string, s SoilSample) []AdvisoryItem {
	return []AdvisoryItem{
		irrigationAdvice(crop, s),
		fertilizerAdvice(s),
		pestAdvice(crop),
	}
}

func irrigationAdvice(crop string, s SoilSample) AdvisoryItem {
	desc := "Monitor soil moisture. Reduce irrigation if rainfall is adequate"
	if s.Rainfall < lowRainfallMM {
		desc = fmt.Sprintf("Apply 150-200mm water per week during flowering stage for %s", crop)
	}
	return AdvisoryItem{Type: AdvisoryIrrigation, Title: irrigationTitle, Description: desc}
}

// fertilizerAdvice only looks at phosphorus once nitrogen is adequate.
func fertilizerAdvice(s SoilSample) AdvisoryItem {
	var desc string
	switch {
	case s.N < lowNitrogen:
		desc = "Add 15-20kg Urea per acre. Soil nitrogen is low"
	case s.P < lowPhosphorus:
		desc = "Add 10kg DAP per acre. Phosphorus levels need improvement"
	default:
		desc = "Maintain current fertilizer schedule. Soil nutrients are adequate"
	}
	return AdvisoryItem{Type: AdvisoryFertilizer, Title: fertilizerTitle, Description: desc}
}

func pestAdvice(crop string) AdvisoryItem {
	desc, ok := pestTips[crop]
	if !ok {
		desc = defaultPestTip
	}
	return AdvisoryItem{Type: AdvisoryPest, Title: pestTitle, Description: desc}
}
