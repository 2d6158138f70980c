package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// GetSoilProfile returns the reference reading for district (matched
// case-insensitively), or ErrNotFound.
func GetSoilProfile(ctx context.Context, db *gorm.DB, district string) (*domain.SoilProfile, error) {
	var sp domain.SoilProfile
	if err := db.WithContext(ctx).First(&sp, "district = ?", districtKey(district)).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

// UpsertSoilProfiles inserts rows, replacing the reading of any district that
// already exists. Districts are stored lower-cased. Returns the number of rows
// written.
func UpsertSoilProfiles(ctx context.Context, db *gorm.DB, rows []domain.SoilProfile) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	batch := make([]domain.SoilProfile, 0, len(rows))
	pos := make(map[string]int, len(rows))
	for _, r := range rows {
		r.District = districtKey(r.District)
		if r.District == "" {
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		// last row for a district wins
		if i, ok := pos[r.District]; ok {
			batch[i] = r
			continue
		}
		pos[r.District] = len(batch)
		batch = append(batch, r)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "district"}},
		DoUpdates: clause.AssignmentColumns([]string{"n", "p", "k", "ph", "temperature", "humidity", "rainfall"}),
	}).Create(&batch).Error
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}
