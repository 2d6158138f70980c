// Catalog HTTP handlers: the static localization tables a client needs to
// render the login form and crop pickers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/catalog"
)

// LanguagesResponse lists supported interface languages.
type LanguagesResponse struct {
	Success   bool               `json:"success" example:"true"`
	Languages []catalog.Language `json:"languages"`
}

// StatesResponse lists supported states, title-cased.
type StatesResponse struct {
	Success bool     `json:"success" example:"true"`
	States  []string `json:"states"`
}

// DistrictsResponse lists a state's districts.
type DistrictsResponse struct {
	Success   bool     `json:"success" example:"true"`
	State     string   `json:"state"   example:"maharashtra"`
	Districts []string `json:"districts"`
}

// CropsResponse lists crops. Recommendable is the subset the crop advisor
// can predict.
type CropsResponse struct {
	Success       bool     `json:"success" example:"true"`
	Crops         []string `json:"crops"`
	Recommendable []string `json:"recommendable"`
	Seasons       []string `json:"seasons"`
}

// ListLanguages godoc
// @ID       listLanguages
// @Summary  Supported languages
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.LanguagesResponse
// @Router   /catalog/languages [get]
func (h *Handlers) ListLanguages(c *gin.Context) {
	ok(c, http.StatusOK, LanguagesResponse{Success: true, Languages: catalog.Languages()})
}

// ListStates godoc
// @ID       listStates
// @Summary  Supported states
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.StatesResponse
// @Router   /catalog/states [get]
func (h *Handlers) ListStates(c *gin.Context) {
	ok(c, http.StatusOK, StatesResponse{Success: true, States: catalog.States()})
}

// ListDistricts godoc
// @ID          listDistricts
// @Summary     Districts of a state
// @Description Returns the districts of a state (case-insensitive). Unknown states have an empty list.
// @Tags        Catalog
// @Produce     json
// @Param       state  path      string  true  "State name"  example(Maharashtra)
// @Success     200    {object}  handlers.DistrictsResponse
// @Router      /catalog/states/{state}/districts [get]
func (h *Handlers) ListDistricts(c *gin.Context) {
	state := catalog.NormalizeState(c.Param("state"))
	ok(c, http.StatusOK, DistrictsResponse{Success: true, State: state, Districts: catalog.Districts(state)})
}

// ListCrops godoc
// @ID       listCrops
// @Summary  Supported crops and seasons
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.CropsResponse
// @Router   /catalog/crops [get]
func (h *Handlers) ListCrops(c *gin.Context) {
	ok(c, http.StatusOK, CropsResponse{
		Success:       true,
		Crops:         catalog.SupportedCrops(),
		Recommendable: advisor.RecommendableCrops(),
		Seasons:       advisor.Seasons(),
	})
}
