// Package services – PredictionService
//
// PredictionService issues crop recommendations and yield estimates for
// registered farmers, persists them append-only, and replays the stored
// result when a request repeats an Idempotency-Key within its TTL. Concurrent
// requests carrying the same key are collapsed in-process, so only one of them
// issues a prediction.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/catalog"
	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

// PredictionStore is the subset of repo.Store used by PredictionService.
type PredictionStore interface {
	GetFarmer(ctx context.Context, id string) (*domain.Farmer, error)
	CreateCropPrediction(ctx context.Context, p *domain.CropPrediction) error
	CreateYieldPrediction(ctx context.Context, p *domain.YieldPrediction) error
	GetCropPrediction(ctx context.Context, id string) (*domain.CropPrediction, error)
	GetYieldPrediction(ctx context.Context, id string) (*domain.YieldPrediction, error)
	GetCropPredictions(ctx context.Context, farmerID string) ([]domain.CropPrediction, error)
	GetYieldPredictions(ctx context.Context, farmerID string) ([]domain.YieldPrediction, error)
	PredictionStats(ctx context.Context, farmerID string) (int64, *time.Time, error)
	GetIdempotency(ctx context.Context, scope, kind, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, scope, kind, key, predictionID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// PredictionService coordinates the advisor with persistence.
type PredictionService struct {
	Store   PredictionStore
	Advisor *advisor.Advisor
	// IdempotencyTTL bounds how long a key replays its first result.
	IdempotencyTTL time.Duration

	inflight singleflight.Group
}

// replayable is a prediction plus whether it came from an earlier request.
type replayable[T any] struct {
	p        T
	replayed bool
}

// once runs fn for (farmerID, kind, key). Concurrent callers with the same
// non-empty key wait for the running call and get its prediction as a replay.
func once[T any](g *singleflight.Group, farmerID, kind, key string, fn func() (replayable[T], error)) (replayable[T], error) {
	if key == "" {
		return fn()
	}
	ran := false
	v, err, _ := g.Do(farmerID+"\x00"+kind+"\x00"+key, func() (any, error) {
		ran = true
		return fn()
	})
	if err != nil {
		var zero replayable[T]
		return zero, err
	}
	r := v.(replayable[T])
	r.replayed = r.replayed || !ran
	return r, nil
}

// NewPredictionService constructs a PredictionService using the built-in
// rule table and a 24h idempotency window.
func NewPredictionService(st PredictionStore) *PredictionService {
	return &PredictionService{
		Store:          st,
		Advisor:        advisor.NewAdvisor(),
		IdempotencyTTL: 24 * time.Hour,
	}
}

// PredictionHistory is a farmer's stored predictions, oldest first.
type PredictionHistory struct {
	Crops  []domain.CropPrediction  `json:"crops"`
	Yields []domain.YieldPrediction `json:"yields"`
}

func (s *PredictionService) requireFarmer(ctx context.Context, id string) (*domain.Farmer, error) {
	f, err := s.Store.GetFarmer(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFarmerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup farmer: %w", err)
	}
	return f, nil
}

// replayKey reports the stored prediction ID for a live idempotency key.
func (s *PredictionService) replayKey(ctx context.Context, farmerID, kind, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	rec, err := s.Store.GetIdempotency(ctx, farmerID, kind, key, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Str("kind", kind).Msg("idempotency lookup")
		}
		return "", false
	}
	return rec.PredictionID, true
}

// remember records key -> predictionID; failures only cost future replays.
// A duplicate means another process claimed the key first; both predictions
// stay stored and later replays return the one that was recorded.
func (s *PredictionService) remember(ctx context.Context, farmerID, kind, key, predictionID string) {
	if key == "" {
		return
	}
	_, err := s.Store.CreateIdempotency(ctx, farmerID, kind, key, predictionID, http.StatusOK, s.IdempotencyTTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Warn().Err(err).Str("kind", kind).Msg("idempotency store")
	}
}

// PredictCrop ranks the rule table against sample and stores the result.
// The bool result is true when a previous prediction was replayed.
func (s *PredictionService) PredictCrop(ctx context.Context, farmerID string, sample advisor.SoilSample, idemKey string) (*domain.CropPrediction, bool, error) {
	ctx, span := otel.Tracer("services/PredictionService").Start(ctx, "PredictCrop",
		trace.WithAttributes(attribute.String("farmer.id", farmerID)))
	defer span.End()

	if _, err := s.requireFarmer(ctx, farmerID); err != nil {
		return nil, false, err
	}

	r, err := once(&s.inflight, farmerID, domain.KindCrop, idemKey, func() (replayable[*domain.CropPrediction], error) {
		if id, ok := s.replayKey(ctx, farmerID, domain.KindCrop, idemKey); ok {
			if prev, err := s.Store.GetCropPrediction(ctx, id); err == nil {
				return replayable[*domain.CropPrediction]{p: prev, replayed: true}, nil
			}
		}

		rec := s.Advisor.Recommend(sample)
		p := domain.NewCropPrediction(farmerID, sample, rec)
		if err := s.Store.CreateCropPrediction(ctx, p); err != nil {
			return replayable[*domain.CropPrediction]{}, fmt.Errorf("store crop prediction: %w", err)
		}
		predictionsTotal.WithLabelValues(kindCrop, p.Crop).Inc()
		span.SetAttributes(
			attribute.String("prediction.crop", p.Crop),
			attribute.Float64("prediction.confidence", p.Confidence),
		)

		s.remember(ctx, farmerID, domain.KindCrop, idemKey, p.ID)
		return replayable[*domain.CropPrediction]{p: p}, nil
	})
	if err != nil {
		return nil, false, err
	}
	if r.replayed {
		span.SetAttributes(attribute.Bool("idempotency.replayed", true))
	}
	return r.p, r.replayed, nil
}

// PredictYield estimates yield for a planting. The district is taken from
// the farmer profile. The bool result is true when a previous prediction was
// replayed.
func (s *PredictionService) PredictYield(ctx context.Context, farmerID string, in advisor.YieldInput, idemKey string) (*domain.YieldPrediction, bool, error) {
	ctx, span := otel.Tracer("services/PredictionService").Start(ctx, "PredictYield",
		trace.WithAttributes(attribute.String("farmer.id", farmerID)))
	defer span.End()

	if err := validateYieldInput(in); err != nil {
		return nil, false, err
	}
	farmer, err := s.requireFarmer(ctx, farmerID)
	if err != nil {
		return nil, false, err
	}

	r, err := once(&s.inflight, farmerID, domain.KindYield, idemKey, func() (replayable[*domain.YieldPrediction], error) {
		if id, ok := s.replayKey(ctx, farmerID, domain.KindYield, idemKey); ok {
			if prev, err := s.Store.GetYieldPrediction(ctx, id); err == nil {
				return replayable[*domain.YieldPrediction]{p: prev, replayed: true}, nil
			}
		}

		in.District = farmer.District
		p := domain.NewYieldPrediction(farmerID, advisor.EstimateYield(in))
		if err := s.Store.CreateYieldPrediction(ctx, p); err != nil {
			return replayable[*domain.YieldPrediction]{}, fmt.Errorf("store yield prediction: %w", err)
		}
		predictionsTotal.WithLabelValues(kindYield, cropLabel(p.Crop)).Inc()
		span.SetAttributes(
			attribute.String("prediction.crop", p.Crop),
			attribute.Float64("prediction.production", p.PredictedProduction),
		)

		s.remember(ctx, farmerID, domain.KindYield, idemKey, p.ID)
		return replayable[*domain.YieldPrediction]{p: p}, nil
	})
	if err != nil {
		return nil, false, err
	}
	if r.replayed {
		span.SetAttributes(attribute.Bool("idempotency.replayed", true))
	}
	return r.p, r.replayed, nil
}

// History returns a farmer's predictions. When limit > 0 only the limit most
// recent of each kind are kept. Unknown farmers simply have no history.
func (s *PredictionService) History(ctx context.Context, farmerID string, limit int) (*PredictionHistory, error) {
	ctx, span := otel.Tracer("services/PredictionService").Start(ctx, "History",
		trace.WithAttributes(attribute.String("farmer.id", farmerID), attribute.Int("limit", limit)))
	defer span.End()

	crops, err := s.Store.GetCropPredictions(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list crop predictions: %w", err)
	}
	yields, err := s.Store.GetYieldPredictions(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list yield predictions: %w", err)
	}
	if limit > 0 {
		if len(crops) > limit {
			crops = crops[len(crops)-limit:]
		}
		if len(yields) > limit {
			yields = yields[len(yields)-limit:]
		}
	}
	return &PredictionHistory{Crops: crops, Yields: yields}, nil
}

// Stats returns the number of stored predictions for farmerID and the newest
// creation time, for conditional responses.
func (s *PredictionService) Stats(ctx context.Context, farmerID string) (int64, *time.Time, error) {
	return s.Store.PredictionStats(ctx, farmerID)
}

func validateYieldInput(in advisor.YieldInput) error {
	if strings.TrimSpace(in.Crop) == "" {
		return ErrMissingCrop
	}
	if _, ok := advisor.SeasonMultiplier(in.Season); !ok {
		return ErrInvalidSeason
	}
	if !(in.Area > 0) {
		return ErrInvalidArea
	}
	return nil
}

// cropLabel keeps the metric label set bounded.
func cropLabel(crop string) string {
	if _, ok := advisor.BaseYield(crop); ok {
		return crop
	}
	for _, c := range catalog.SupportedCrops() {
		if c == crop {
			return crop
		}
	}
	return "other"
}
