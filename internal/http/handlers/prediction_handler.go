// Prediction HTTP handlers.
//
//   - POST /predict/crop   (rank crops for a soil sample)
//   - POST /predict/yield  (estimate yield for a planting)
//
// Both honor Idempotency-Key: a repeated key returns the stored prediction
// with Idempotency-Replayed: true.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/http/middleware"
)

// SoilDataRequest is a soil and climate sample. Fields are pointers so an
// explicit zero passes "required".
type SoilDataRequest struct {
	N           *float64 `json:"N"           binding:"required,gte=0,lte=140"      example:"90"`
	P           *float64 `json:"P"           binding:"required,gte=5,lte=145"      example:"42"`
	K           *float64 `json:"K"           binding:"required,gte=5,lte=205"      example:"43"`
	PH          *float64 `json:"ph"          binding:"required,gte=3.5,lte=9.9"    example:"6.5"`
	Temperature *float64 `json:"temperature" binding:"required,gte=8.8,lte=43.7"   example:"25"`
	Humidity    *float64 `json:"humidity"    binding:"required,gte=14.3,lte=99.9"  example:"70"`
	Rainfall    *float64 `json:"rainfall"    binding:"required,gte=20.2,lte=3000"  example:"400"`
}

// Sample converts a validated request into an advisor.SoilSample.
func (r SoilDataRequest) Sample() advisor.SoilSample {
	return advisor.SoilSample{
		N:           deref(r.N),
		P:           deref(r.P),
		K:           deref(r.K),
		PH:          deref(r.PH),
		Temperature: deref(r.Temperature),
		Humidity:    deref(r.Humidity),
		Rainfall:    deref(r.Rainfall),
	}
}

// CropPredictionRequest is the JSON payload for POST /predict/crop.
type CropPredictionRequest struct {
	FarmerID string          `json:"farmerId" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	SoilData SoilDataRequest `json:"soilData"`
}

// YieldDataRequest describes the planting to estimate.
type YieldDataRequest struct {
	Crop   string  `json:"crop"   binding:"required,max=64"                  example:"rice"`
	Season string  `json:"season" binding:"required,oneof=Kharif Rabi Summer" example:"Kharif"`
	Area   float64 `json:"area"   binding:"required,gt=0"                    example:"2.5"`
	Year   *int    `json:"year"   binding:"required"                         example:"2025"`
}

// YieldPredictionRequest is the JSON payload for POST /predict/yield.
type YieldPredictionRequest struct {
	FarmerID  string           `json:"farmerId" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	YieldData YieldDataRequest `json:"yieldData"`
}

// CropPredictionView is a stored crop recommendation.
type CropPredictionView struct {
	ID       string `json:"id"`
	FarmerID string `json:"farmerId"`
	advisor.Recommendation
	SoilData  advisor.SoilSample `json:"soilData"`
	CreatedAt time.Time          `json:"createdAt"`
}

// YieldPredictionView is a stored yield estimate.
type YieldPredictionView struct {
	ID       string `json:"id"`
	FarmerID string `json:"farmerId"`
	advisor.YieldEstimate
	CreatedAt time.Time `json:"createdAt"`
}

// CropPredictionResponse wraps a crop prediction.
type CropPredictionResponse struct {
	Success    bool               `json:"success" example:"true"`
	Prediction CropPredictionView `json:"prediction"`
}

// YieldPredictionResponse wraps a yield prediction.
type YieldPredictionResponse struct {
	Success    bool                `json:"success" example:"true"`
	Prediction YieldPredictionView `json:"prediction"`
}

func cropView(p *domain.CropPrediction) CropPredictionView {
	return CropPredictionView{
		ID:             p.ID,
		FarmerID:       p.FarmerID,
		Recommendation: p.Recommendation(),
		SoilData:       p.SoilData.Data(),
		CreatedAt:      p.CreatedAt,
	}
}

func yieldView(p *domain.YieldPrediction) YieldPredictionView {
	return YieldPredictionView{
		ID:            p.ID,
		FarmerID:      p.FarmerID,
		YieldEstimate: p.Estimate(),
		CreatedAt:     p.CreatedAt,
	}
}

// PredictCrop godoc
// @ID          predictCrop
// @Summary     Recommend a crop
// @Description Ranks every crop against the soil sample and stores the recommendation. Repeating an Idempotency-Key returns the stored prediction.
// @Tags        Predictions
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Idempotency key"  example(2b1f3c1e-crop-1)
// @Param       body             body    handlers.CropPredictionRequest  true  "Farmer and soil sample"
// @Success     201  {object}  handlers.CropPredictionResponse
// @Success     200  {object}  handlers.CropPredictionResponse  "Idempotent replay"
// @Header      200  {string}  Idempotency-Replayed  "true when the response is a replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Farmer not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /predict/crop [post]
func (h *Handlers) PredictCrop(c *gin.Context) {
	var req CropPredictionRequest
	if !bindJSON(c, &req) {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	p, replayed, err := h.predictions.PredictCrop(c.Request.Context(), strings.TrimSpace(req.FarmerID), req.SoilData.Sample(), key)
	if err != nil {
		failWith(c, err, ErrCodePredictionFailed)
		return
	}

	setReplayed(c, replayed)
	ok(c, predictionStatus(replayed), CropPredictionResponse{Success: true, Prediction: cropView(p)})
}

// PredictYield godoc
// @ID          predictYield
// @Summary     Estimate yield
// @Description Estimates production for a planting in the farmer's district and stores it. Repeating an Idempotency-Key returns the stored prediction.
// @Tags        Predictions
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Idempotency key"  example(2b1f3c1e-yield-1)
// @Param       body             body    handlers.YieldPredictionRequest  true  "Farmer and planting"
// @Success     201  {object}  handlers.YieldPredictionResponse
// @Success     200  {object}  handlers.YieldPredictionResponse  "Idempotent replay"
// @Header      200  {string}  Idempotency-Replayed  "true when the response is a replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Farmer not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /predict/yield [post]
func (h *Handlers) PredictYield(c *gin.Context) {
	var req YieldPredictionRequest
	if !bindJSON(c, &req) {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	in := advisor.YieldInput{
		Crop:   strings.TrimSpace(req.YieldData.Crop),
		Season: req.YieldData.Season,
		Area:   req.YieldData.Area,
		Year:   *req.YieldData.Year,
	}
	p, replayed, err := h.predictions.PredictYield(c.Request.Context(), strings.TrimSpace(req.FarmerID), in, key)
	if err != nil {
		failWith(c, err, ErrCodePredictionFailed)
		return
	}

	setReplayed(c, replayed)
	ok(c, predictionStatus(replayed), YieldPredictionResponse{Success: true, Prediction: yieldView(p)})
}

func predictionStatus(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
