package services

import "github.com/prometheus/client_golang/prometheus"

// Prediction kinds used as metric labels.
const (
	kindCrop  = "crop"
	kindYield = "yield"
)

// Weather fallback reasons used as metric labels.
const (
	fallbackNoProvider    = "no_api_key"
	fallbackUpstreamError = "upstream_error"
)

var (
	// predictionsTotal counts issued (not replayed) predictions. The crop label
	// is bounded by the rule table for crop predictions and by the supported
	// crop list for yield predictions; anything else is reported as "other".
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmwise_predictions_total",
			Help: "Total number of crop and yield predictions issued.",
		},
		[]string{"kind", "crop"},
	)

	// weatherFallbacks counts weather requests answered with mock data.
	weatherFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmwise_weather_fallbacks_total",
			Help: "Weather lookups served from default values, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, weatherFallbacks)
}
