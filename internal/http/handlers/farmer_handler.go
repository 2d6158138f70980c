// Farmer HTTP handlers.
//
//   - POST /farmers/login             (upsert by phone)
//   - GET  /farmers/{id}              (profile)
//   - GET  /farmers/{id}/predictions  (history, ETag support)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/services"
	"github.com/tbourn/farmwise-backend/internal/utils"
)

// LoginRequest is the JSON payload for POST /farmers/login.
type LoginRequest struct {
	Phone    string `json:"phone"              binding:"required,min=10,max=20" example:"9876543210"`
	Name     string `json:"name"               binding:"required,max=255"       example:"Ravi Kumar"`
	Email    string `json:"email,omitempty"    binding:"omitempty,email"        example:"ravi@example.in"`
	State    string `json:"state"              binding:"required,max=64"        example:"Maharashtra"`
	District string `json:"district"           binding:"required,max=64"        example:"Pune"`
	Language string `json:"language,omitempty" binding:"omitempty,max=8"        example:"mr"`
}

// FarmerResponse wraps a farmer profile.
type FarmerResponse struct {
	Success bool           `json:"success" example:"true"`
	Farmer  *domain.Farmer `json:"farmer"`
}

// PredictionsResponse wraps a farmer's prediction history.
type PredictionsResponse struct {
	Success     bool                        `json:"success" example:"true"`
	Predictions *services.PredictionHistory `json:"predictions"`
}

// Login godoc
// @ID          loginFarmer
// @Summary     Log in or register a farmer
// @Description Upserts a farmer by phone number. Returns 201 when a new farmer is created and 200 when an existing one is updated.
// @Tags        Farmers
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Farmer profile"
// @Success     200   {object}  handlers.FarmerResponse
// @Success     201   {object}  handlers.FarmerResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /farmers/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	f, created, err := h.farmers.Login(c.Request.Context(), domain.FarmerInput{
		Phone:    req.Phone,
		Name:     req.Name,
		Email:    req.Email,
		State:    req.State,
		District: req.District,
		Language: req.Language,
	})
	if err != nil {
		failWith(c, err, ErrCodeLoginFailed)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, FarmerResponse{Success: true, Farmer: f})
}

// GetFarmer godoc
// @ID          getFarmer
// @Summary     Get a farmer
// @Tags        Farmers
// @Produce     json
// @Param       id   path      string  true  "Farmer ID"  format(uuid)
// @Success     200  {object}  handlers.FarmerResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Farmer not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /farmers/{id} [get]
func (h *Handlers) GetFarmer(c *gin.Context) {
	f, err := h.farmers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err, ErrCodeLookupFailed)
		return
	}
	ok(c, http.StatusOK, FarmerResponse{Success: true, Farmer: f})
}

// ListPredictions godoc
// @ID          listPredictions
// @Summary     List a farmer's predictions
// @Description Returns crop and yield predictions, oldest first. Unknown farmers have empty lists. Supports a weak ETag via If-None-Match and may return 304.
// @Tags        Farmers
// @Produce     json
// @Param       id             path    string  true   "Farmer ID"  format(uuid)
// @Param       limit          query   int     false  "Keep only the N most recent of each kind"  minimum(1)  maximum(500)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.PredictionsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /farmers/{id}/predictions [get]
func (h *Handlers) ListPredictions(c *gin.Context) {
	const maxLimit = 500
	ctx := c.Request.Context()
	id := c.Param("id")

	limit := utils.HistoryLimit(c.Query("limit"), maxLimit)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.predictions.Stats(ctx, id); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"predictions:%s:%d:%d:%d"`, id, limit, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	hist, err := h.predictions.History(ctx, id, limit)
	if err != nil {
		if errors.Is(err, services.ErrFarmerNotFound) {
			hist = &services.PredictionHistory{Crops: []domain.CropPrediction{}, Yields: []domain.YieldPrediction{}}
		} else {
			failWith(c, err, ErrCodeLookupFailed)
			return
		}
	}
	ok(c, http.StatusOK, PredictionsResponse{Success: true, Predictions: hist})
}
