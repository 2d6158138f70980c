// Package catalog holds the static reference tables shown to farmers: the
// supported states and their districts, interface languages, and the crops
// the app knows about. Only a subset of the crops is covered by the
// recommendation rule table; see advisor.RecommendableCrops.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is an interface language offered to farmers.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

// DefaultLanguage is assigned to farmers who do not pick one.
const DefaultLanguage = "en"

var languages = []Language{
	{Code: "en", Name: "English", Native: "English"},
	{Code: "hi", Name: "Hindi", Native: "हिन्दी"},
	{Code: "bn", Name: "Bengali", Native: "বাংলা"},
	{Code: "te", Name: "Telugu", Native: "తెలుగు"},
	{Code: "kn", Name: "Kannada", Native: "ಕನ್ನಡ"},
	{Code: "ta", Name: "Tamil", Native: "தமிழ்"},
	{Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	{Code: "mr", Name: "Marathi", Native: "मराठी"},
	{Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	{Code: "ml", Name: "Malayalam", Native: "മലയാളം"},
	{Code: "od", Name: "Odia", Native: "ଓଡ଼ିଆ"},
	{Code: "as", Name: "Assamese", Native: "অসমীয়া"},
	{Code: "ur", Name: "Urdu", Native: "اردو"},
	{Code: "ne", Name: "Nepali", Native: "नेपाली"},
	{Code: "si", Name: "Sinhala", Native: "සිංහල"},
}

// stateDistricts is keyed by lower-case state name.
var stateDistricts = map[string][]string{
	"maharashtra":    {"mumbai", "pune", "nagpur", "nashik", "aurangabad", "solapur", "thane", "kolhapur", "sangli", "satara"},
	"punjab":         {"ludhiana", "amritsar", "jalandhar", "patiala", "bathinda", "mohali", "hoshiarpur", "kapurthala", "faridkot", "firozpur"},
	"haryana":        {"gurgaon", "faridabad", "panipat", "ambala", "yamunanagar", "rohtak", "hisar", "karnal", "sonipat", "bhiwani"},
	"rajasthan":      {"jaipur", "jodhpur", "udaipur", "kota", "bikaner", "ajmer", "bhilwara", "alwar", "bharatpur", "pali"},
	"gujarat":        {"ahmedabad", "surat", "vadodara", "rajkot", "bhavnagar", "jamnagar", "gandhinagar", "anand", "navsari", "morbi"},
	"uttar pradesh":  {"lucknow", "kanpur", "ghaziabad", "agra", "varanasi", "meerut", "allahabad", "bareilly", "aligarh", "moradabad"},
	"bihar":          {"patna", "gaya", "bhagalpur", "muzaffarpur", "purnia", "darbhanga", "bihar sharif", "arrah", "begusarai", "katihar"},
	"west bengal":    {"kolkata", "howrah", "durgapur", "asansol", "siliguri", "malda", "barrackpore", "habra", "kharagpur", "haldia"},
	"odisha":         {"bhubaneswar", "cuttack", "rourkela", "brahmapur", "sambalpur", "puri", "balasore", "bhadrak", "baripada", "jharsuguda"},
	"tamil nadu":     {"chennai", "coimbatore", "madurai", "tiruchirappalli", "salem", "tirunelveli", "tiruppur", "vellore", "erode", "thoothukudi"},
	"karnataka":      {"bangalore", "mysore", "hubli", "mangalore", "belgaum", "gulbarga", "davanagere", "bellary", "bijapur", "shimoga"},
	"andhra pradesh": {"hyderabad", "visakhapatnam", "vijayawada", "guntur", "nellore", "kurnool", "rajahmundry", "tirupati", "kakinada", "anantapur"},
	"telangana":      {"hyderabad", "warangal", "nizamabad", "khammam", "karimnagar", "ramagundam", "mahabubnagar", "nalgonda", "adilabad", "suryapet"},
}

// stateOrder is the display order of States.
var stateOrder = []string{
	"maharashtra", "punjab", "haryana", "rajasthan", "gujarat", "uttar pradesh", "bihar",
	"west bengal", "odisha", "tamil nadu", "karnataka", "andhra pradesh", "telangana",
}

var supportedCrops = []string{
	"rice", "maize", "chickpea", "kidneybeans", "pigeonpeas", "mothbeans",
	"mungbean", "blackgram", "lentil", "pomegranate", "banana", "mango",
	"grapes", "watermelon", "muskmelon", "apple", "orange", "papaya",
	"coconut", "cotton", "jute", "coffee",
}

// Languages returns the interface languages in display order.
func Languages() []Language { return append([]Language(nil), languages...) }

// IsLanguage reports whether code is an offered language code.
func IsLanguage(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// States returns the state names, title-cased for display.
func States() []string {
	caser := cases.Title(language.English)
	out := make([]string, len(stateOrder))
	for i, s := range stateOrder {
		out[i] = caser.String(s)
	}
	return out
}

// NormalizeState lower-cases and trims a state name to its storage key.
func NormalizeState(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Districts returns the districts of state (case-insensitive), or an empty
// slice when the state is unknown.
func Districts(state string) []string {
	d, ok := stateDistricts[NormalizeState(state)]
	if !ok {
		return []string{}
	}
	return append([]string(nil), d...)
}

// HasDistrict reports whether district belongs to state, ignoring case.
func HasDistrict(state, district string) bool {
	district = NormalizeState(district)
	for _, d := range Districts(state) {
		if d == district {
			return true
		}
	}
	return false
}

// AllDistricts returns every known district once, sorted.
func AllDistricts() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ds := range stateDistricts {
		for _, d := range ds {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// SupportedCrops returns every crop name the app accepts for yield estimates.
func SupportedCrops() []string { return append([]string(nil), supportedCrops...) }
