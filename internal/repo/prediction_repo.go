// This file provides GORM repository functions for crop and yield predictions.
// Predictions are append-only: there are create and read helpers, nothing
// else.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// CreateCropPrediction assigns an ID and CreatedAt and inserts p.
func CreateCropPrediction(ctx context.Context, db *gorm.DB, p *domain.CropPrediction) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// CreateYieldPrediction assigns an ID and CreatedAt and inserts p.
func CreateYieldPrediction(ctx context.Context, db *gorm.DB, p *domain.YieldPrediction) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// GetCropPrediction loads a single crop prediction, or ErrNotFound.
func GetCropPrediction(ctx context.Context, db *gorm.DB, id string) (*domain.CropPrediction, error) {
	var p domain.CropPrediction
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetYieldPrediction loads a single yield prediction, or ErrNotFound.
func GetYieldPrediction(ctx context.Context, db *gorm.DB, id string) (*domain.YieldPrediction, error) {
	var p domain.YieldPrediction
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCropPredictions returns a farmer's crop predictions oldest first.
// The slice is empty (never nil) when there are none.
func ListCropPredictions(ctx context.Context, db *gorm.DB, farmerID string) ([]domain.CropPrediction, error) {
	out := []domain.CropPrediction{}
	err := db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ListYieldPredictions returns a farmer's yield predictions oldest first.
// The slice is empty (never nil) when there are none.
func ListYieldPredictions(ctx context.Context, db *gorm.DB, farmerID string) ([]domain.YieldPrediction, error) {
	out := []domain.YieldPrediction{}
	err := db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
