package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// SQLStore implements Store on top of a GORM handle.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore wraps an opened, migrated database.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{DB: db} }

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) CreateFarmer(ctx context.Context, in domain.FarmerInput) (*domain.Farmer, error) {
	return CreateFarmer(ctx, s.DB, in)
}

func (s *SQLStore) UpdateFarmer(ctx context.Context, id string, in domain.FarmerInput) (*domain.Farmer, error) {
	return UpdateFarmer(ctx, s.DB, id, in)
}

func (s *SQLStore) GetFarmer(ctx context.Context, id string) (*domain.Farmer, error) {
	return GetFarmer(ctx, s.DB, id)
}

func (s *SQLStore) GetFarmerByPhone(ctx context.Context, phone string) (*domain.Farmer, error) {
	return GetFarmerByPhone(ctx, s.DB, phone)
}

func (s *SQLStore) GetSoilDataByDistrict(ctx context.Context, district string) (*domain.SoilProfile, error) {
	return GetSoilProfile(ctx, s.DB, district)
}

func (s *SQLStore) UpsertSoilData(ctx context.Context, rows []domain.SoilProfile) (int, error) {
	return UpsertSoilProfiles(ctx, s.DB, rows)
}

func (s *SQLStore) CreateCropPrediction(ctx context.Context, p *domain.CropPrediction) error {
	return CreateCropPrediction(ctx, s.DB, p)
}

func (s *SQLStore) CreateYieldPrediction(ctx context.Context, p *domain.YieldPrediction) error {
	return CreateYieldPrediction(ctx, s.DB, p)
}

func (s *SQLStore) GetCropPrediction(ctx context.Context, id string) (*domain.CropPrediction, error) {
	return GetCropPrediction(ctx, s.DB, id)
}

func (s *SQLStore) GetYieldPrediction(ctx context.Context, id string) (*domain.YieldPrediction, error) {
	return GetYieldPrediction(ctx, s.DB, id)
}

func (s *SQLStore) GetCropPredictions(ctx context.Context, farmerID string) ([]domain.CropPrediction, error) {
	return ListCropPredictions(ctx, s.DB, farmerID)
}

func (s *SQLStore) GetYieldPredictions(ctx context.Context, farmerID string) ([]domain.YieldPrediction, error) {
	return ListYieldPredictions(ctx, s.DB, farmerID)
}

func (s *SQLStore) PredictionStats(ctx context.Context, farmerID string) (int64, *time.Time, error) {
	return PredictionsStats(ctx, s.DB, farmerID)
}

func (s *SQLStore) GetIdempotency(ctx context.Context, scope, kind, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, scope, kind, key, now)
}

func (s *SQLStore) CreateIdempotency(ctx context.Context, scope, kind, key, predictionID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, s.DB, scope, kind, key, predictionID, status, ttl)
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
