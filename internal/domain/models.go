// Package domain defines the persisted records of the advisory backend:
// farmer profiles, soil reference readings, and the crop and yield
// predictions issued to farmers. The same types back both the JSON file store
// and the GORM/SQLite store, so they carry json and gorm tags side by side.
package domain

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/farmwise-backend/internal/advisor"
)

// Farmer is a registered grower. Phone uniquely identifies a farmer; logging
// in again with the same phone updates the existing record.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Phone: login identifier, unique.
//   - State: stored lower-cased, matching the catalog keys.
//   - Language: interface language code, "en" unless chosen.
type Farmer struct {
	ID        string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Phone     string    `json:"phone"           gorm:"type:varchar(32);not null;uniqueIndex:ux_farmers_phone"`
	Name      string    `json:"name"            gorm:"type:varchar(255);not null"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	State     string    `json:"state"           gorm:"type:varchar(64);not null"`
	District  string    `json:"district"        gorm:"type:varchar(64);not null"`
	Language  string    `json:"language"        gorm:"type:varchar(8);not null;default:'en'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Farmer.
func (Farmer) TableName() string { return "farmers" }

// FarmerInput carries the mutable profile fields for create and update.
// Empty fields are left untouched on update.
type FarmerInput struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	State    string `json:"state"`
	District string `json:"district"`
	Language string `json:"language,omitempty"`
}

// SoilProfile is the reference soil reading for a district, used to pre-fill
// the recommendation form.
type SoilProfile struct {
	ID       string `json:"id"       gorm:"type:char(36);primaryKey"`
	District string `json:"district" gorm:"type:varchar(64);not null;uniqueIndex:ux_soil_district"`
	advisor.SoilSample
}

// TableName returns the database table name for SoilProfile.
func (SoilProfile) TableName() string { return "soil_profiles" }

// CropPrediction is an issued crop recommendation together with the sample it
// was computed from. Predictions are append-only.
type CropPrediction struct {
	ID           string                                   `json:"id"         gorm:"type:char(36);primaryKey"`
	FarmerID     string                                   `json:"farmerId"   gorm:"type:char(36);not null;index:idx_crop_pred_farmer,priority:1"`
	Crop         string                                   `json:"crop"       gorm:"type:varchar(64);not null"`
	Confidence   float64                                  `json:"confidence" gorm:"not null"`
	SoilData     datatypes.JSONType[advisor.SoilSample]   `json:"soilData"`
	Alternatives datatypes.JSONSlice[advisor.Alternative] `json:"alternatives"`
	Advisory     datatypes.JSONSlice[advisor.AdvisoryItem] `json:"advisory"`
	CreatedAt    time.Time                                `json:"createdAt"  gorm:"index:idx_crop_pred_farmer,priority:2"`
}

// TableName returns the database table name for CropPrediction.
func (CropPrediction) TableName() string { return "crop_predictions" }

// NewCropPrediction builds an unsaved record from a recommendation.
func NewCropPrediction(farmerID string, s advisor.SoilSample, rec advisor.Recommendation) *CropPrediction {
	return &CropPrediction{
		FarmerID:     farmerID,
		Crop:         rec.PredictedCrop,
		Confidence:   rec.Confidence,
		SoilData:     datatypes.NewJSONType(s),
		Alternatives: datatypes.JSONSlice[advisor.Alternative](rec.Alternatives),
		Advisory:     datatypes.JSONSlice[advisor.AdvisoryItem](rec.Advisory),
	}
}

// Recommendation rebuilds the advisor view of a stored prediction.
func (p *CropPrediction) Recommendation() advisor.Recommendation {
	return advisor.Recommendation{
		PredictedCrop:        p.Crop,
		Confidence:           p.Confidence,
		ConfidencePercentage: p.Confidence * 100,
		Alternatives:         append([]advisor.Alternative{}, p.Alternatives...),
		Advisory:             append([]advisor.AdvisoryItem{}, p.Advisory...),
	}
}

// YieldPrediction is an issued yield estimate. Predictions are append-only.
type YieldPrediction struct {
	ID                  string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	FarmerID            string    `json:"farmerId"            gorm:"type:char(36);not null;index:idx_yield_pred_farmer,priority:1"`
	Crop                string    `json:"crop"                gorm:"type:varchar(64);not null"`
	Season              string    `json:"season"              gorm:"type:varchar(16);not null;check:season IN ('Kharif','Rabi','Summer')"`
	Area                float64   `json:"area"                gorm:"not null;check:area > 0"`
	Year                int       `json:"year"`
	District            string    `json:"district,omitempty"  gorm:"type:varchar(64)"`
	PredictedProduction float64   `json:"predictedProduction" gorm:"not null"`
	PredictedYield      float64   `json:"predictedYield"      gorm:"not null"`
	CreatedAt           time.Time `json:"createdAt"           gorm:"index:idx_yield_pred_farmer,priority:2"`
}

// TableName returns the database table name for YieldPrediction.
func (YieldPrediction) TableName() string { return "yield_predictions" }

// NewYieldPrediction builds an unsaved record from an estimate.
func NewYieldPrediction(farmerID string, est advisor.YieldEstimate) *YieldPrediction {
	return &YieldPrediction{
		FarmerID:            farmerID,
		Crop:                est.Crop,
		Season:              est.Season,
		Area:                est.Area,
		Year:                est.Year,
		District:            est.District,
		PredictedProduction: est.PredictedProduction,
		PredictedYield:      est.PredictedYield,
	}
}

// Estimate rebuilds the advisor view of a stored prediction.
func (p *YieldPrediction) Estimate() advisor.YieldEstimate {
	return advisor.YieldEstimate{
		PredictedProduction: p.PredictedProduction,
		PredictedYield:      p.PredictedYield,
		Area:                p.Area,
		Crop:                p.Crop,
		Season:              p.Season,
		District:            p.District,
		Year:                p.Year,
	}
}
