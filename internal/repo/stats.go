// This file provides small aggregate queries used for conditional responses
// (ETag generation) on the prediction history endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// PredictionsStats returns the total number of crop and yield predictions for
// farmerID and the newest CreatedAt among them. When the farmer has no
// predictions, count is 0 and latest is nil.
func PredictionsStats(ctx context.Context, db *gorm.DB, farmerID string) (count int64, latest *time.Time, err error) {
	for _, model := range []any{&domain.CropPrediction{}, &domain.YieldPrediction{}} {
		q := db.WithContext(ctx).Model(model).Where("farmer_id = ?", farmerID)

		var n int64
		if err = q.Count(&n).Error; err != nil {
			return 0, nil, err
		}
		if n == 0 {
			continue
		}
		count += n

		// Get latest created_at (avoid MAX() -> TEXT in SQLite)
		var row struct {
			CreatedAt time.Time
		}
		if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
			return 0, nil, err
		}
		if latest == nil || row.CreatedAt.After(*latest) {
			ts := row.CreatedAt
			latest = &ts
		}
	}
	return count, latest, nil
}
