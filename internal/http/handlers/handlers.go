// Package handlers exposes the advisory API over Gin.
//
// Handlers are transport-thin: they bind and validate input, call the
// application services, and translate results into the JSON envelope.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/services"
	"github.com/tbourn/farmwise-backend/internal/weather"
)

// FarmerService handles farmer login and lookups.
type FarmerService interface {
	// Login upserts by phone; the bool reports whether a farmer was created.
	Login(ctx context.Context, in domain.FarmerInput) (*domain.Farmer, bool, error)
	Get(ctx context.Context, id string) (*domain.Farmer, error)
}

// PredictionService issues and lists predictions. The bool results of the
// Predict methods report an idempotent replay.
type PredictionService interface {
	PredictCrop(ctx context.Context, farmerID string, sample advisor.SoilSample, idemKey string) (*domain.CropPrediction, bool, error)
	PredictYield(ctx context.Context, farmerID string, in advisor.YieldInput, idemKey string) (*domain.YieldPrediction, bool, error)
	History(ctx context.Context, farmerID string, limit int) (*services.PredictionHistory, error)
	Stats(ctx context.Context, farmerID string) (int64, *time.Time, error)
}

// SoilService resolves district soil profiles.
type SoilService interface {
	ForDistrict(ctx context.Context, district string) (advisor.SoilSample, bool, error)
}

// WeatherService returns current conditions for a coordinate.
type WeatherService interface {
	Current(ctx context.Context, lat, lon float64) (weather.Reading, error)
}

// Handlers groups every API endpoint.
type Handlers struct {
	farmers     FarmerService
	predictions PredictionService
	soil        SoilService
	weather     WeatherService
}

// New constructs Handlers bound to the given services.
func New(farmers FarmerService, predictions PredictionService, soil SoilService, wx WeatherService) *Handlers {
	return &Handlers{farmers: farmers, predictions: predictions, soil: soil, weather: wx}
}

// bindJSON binds the request body into dst and writes a 400 on failure. It
// reports whether the handler should continue.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fail(c, http.StatusBadRequest, ErrCodeValidation, validationMessage(verrs))
			return false
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// validationMessage renders validator errors with JSON field paths, e.g.
// "soilData.ph must be <= 9.9".
func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return field + " must be a valid email"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func init() {
	// Report json names instead of Go field names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// jsonPath drops the root struct name from the validator namespace, leaving
// the client's JSON field path.
func jsonPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
