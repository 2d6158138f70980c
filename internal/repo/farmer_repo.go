// This file provides GORM repository functions for the Farmer model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They only
// compose queries; login and upsert rules live in services.FarmerService.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// CreateFarmer inserts a new Farmer with a random UUID and UTC timestamps.
// A phone that is already registered yields ErrDuplicate.
func CreateFarmer(ctx context.Context, db *gorm.DB, in domain.FarmerInput) (*domain.Farmer, error) {
	now := time.Now().UTC()
	f := &domain.Farmer{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	mergeFarmer(f, in)
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return f, nil
}

// GetFarmer fetches a farmer by ID, or ErrNotFound.
func GetFarmer(ctx context.Context, db *gorm.DB, id string) (*domain.Farmer, error) {
	var f domain.Farmer
	if err := db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFarmerByPhone fetches a farmer by exact phone match, or ErrNotFound.
func GetFarmerByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.Farmer, error) {
	var f domain.Farmer
	if err := db.WithContext(ctx).First(&f, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFarmer merges the non-empty fields of in into the stored farmer and
// bumps UpdatedAt. Returns ErrNotFound if the farmer does not exist.
func UpdateFarmer(ctx context.Context, db *gorm.DB, id string, in domain.FarmerInput) (*domain.Farmer, error) {
	var out *domain.Farmer
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := GetFarmer(ctx, tx, id)
		if err != nil {
			return err
		}
		mergeFarmer(f, in)
		f.UpdatedAt = time.Now().UTC()
		if err := tx.Save(f).Error; err != nil {
			return err
		}
		out = f
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return out, err
}
