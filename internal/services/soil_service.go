package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

// DefaultSoil is served for districts without a reference reading.
var DefaultSoil = advisor.SoilSample{N: 90, P: 42, K: 43, PH: 6.5, Temperature: 25, Humidity: 70, Rainfall: 400}

// SoilStore is the subset of repo.Store used by SoilService.
type SoilStore interface {
	GetSoilDataByDistrict(ctx context.Context, district string) (*domain.SoilProfile, error)
	UpsertSoilData(ctx context.Context, rows []domain.SoilProfile) (int, error)
}

// SoilService serves district soil reference readings.
type SoilService struct {
	Store SoilStore
}

// NewSoilService constructs a SoilService.
func NewSoilService(st SoilStore) *SoilService { return &SoilService{Store: st} }

// ForDistrict returns the district's reference reading, or DefaultSoil when
// the district is unknown. found reports which one was returned.
func (s *SoilService) ForDistrict(ctx context.Context, district string) (sample advisor.SoilSample, found bool, err error) {
	ctx, span := otel.Tracer("services/SoilService").Start(ctx, "ForDistrict")
	defer span.End()

	sp, err := s.Store.GetSoilDataByDistrict(ctx, strings.TrimSpace(district))
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("soil.found", true))
		return sp.SoilSample, true, nil
	case errors.Is(err, repo.ErrNotFound):
		span.SetAttributes(attribute.Bool("soil.found", false))
		return DefaultSoil, false, nil
	default:
		return advisor.SoilSample{}, false, err
	}
}

// Import upserts reference rows and returns how many were written.
func (s *SoilService) Import(ctx context.Context, rows []domain.SoilProfile) (int, error) {
	ctx, span := otel.Tracer("services/SoilService").Start(ctx, "Import")
	defer span.End()
	span.SetAttributes(attribute.Int("soil.rows", len(rows)))
	return s.Store.UpsertSoilData(ctx, rows)
}
