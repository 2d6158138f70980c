// Soil and weather HTTP handlers.
//
//   - GET /soil/{district}
//   - GET /weather?lat=&lon=
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/weather"
)

// SoilResponse wraps a district soil profile. Found is false when the
// district has no profile and the regional default was returned.
type SoilResponse struct {
	Success  bool               `json:"success" example:"true"`
	SoilData advisor.SoilSample `json:"soilData"`
	Found    bool               `json:"found"   example:"true"`
}

// WeatherResponse wraps a weather reading.
type WeatherResponse struct {
	Success     bool            `json:"success" example:"true"`
	WeatherData weather.Reading `json:"weatherData"`
}

// GetSoil godoc
// @ID          getSoil
// @Summary     Soil profile for a district
// @Description Returns the stored soil profile for a district (case-insensitive), or the regional default when none is stored.
// @Tags        Soil
// @Produce     json
// @Param       district  path      string  true  "District name"  example(pune)
// @Success     200       {object}  handlers.SoilResponse
// @Failure     500       {object}  handlers.ErrorResponse  "Internal error"
// @Router      /soil/{district} [get]
func (h *Handlers) GetSoil(c *gin.Context) {
	s, found, err := h.soil.ForDistrict(c.Request.Context(), c.Param("district"))
	if err != nil {
		failWith(c, err, ErrCodeLookupFailed)
		return
	}
	ok(c, http.StatusOK, SoilResponse{Success: true, SoilData: s, Found: found})
}

// GetWeather godoc
// @ID          getWeather
// @Summary     Current weather
// @Description Returns temperature, humidity and rainfall at a coordinate. Falls back to default values when no provider is configured or the provider fails.
// @Tags        Weather
// @Produce     json
// @Param       lat  query     number  true  "Latitude"   minimum(-90)   maximum(90)   example(18.52)
// @Param       lon  query     number  true  "Longitude"  minimum(-180)  maximum(180)  example(73.85)
// @Success     200  {object}  handlers.WeatherResponse
// @Failure     400  {object}  handlers.ErrorResponse  "lat/lon missing or invalid"
// @Router      /weather [get]
func (h *Handlers) GetWeather(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(c.Query("lon")), 64)
	if errLat != nil || errLon != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "lat and lon must be numbers")
		return
	}

	r, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		failWith(c, err, ErrCodeLookupFailed)
		return
	}
	ok(c, http.StatusOK, WeatherResponse{Success: true, WeatherData: r})
}
