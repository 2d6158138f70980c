package domain

import "time"

// Idempotency kinds identify which prediction table PredictionID refers to.
const (
	KindCrop  = "crop"
	KindYield = "yield"
)

// Idempotency records the prediction produced for a (scope, key) pair so a
// retried POST replays the first response instead of issuing a second
// prediction. Scope is the farmer the request was made for.
type Idempotency struct {
	ID           string    `json:"id"           gorm:"type:TEXT NOT NULL;primaryKey"`
	Scope        string    `json:"scope"        gorm:"type:TEXT NOT NULL;uniqueIndex:ux_scope_kind_key,priority:1"`
	Kind         string    `json:"kind"         gorm:"type:TEXT NOT NULL;uniqueIndex:ux_scope_kind_key,priority:2"`
	Key          string    `json:"key"          gorm:"type:TEXT NOT NULL;uniqueIndex:ux_scope_kind_key,priority:3"`
	PredictionID string    `json:"predictionId" gorm:"type:TEXT NOT NULL"`
	Status       int       `json:"status"       gorm:"type:INTEGER NOT NULL"`
	CreatedAt    time.Time `json:"createdAt"    gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt    time.Time `json:"expiresAt"    gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Expired reports whether the record is no longer replayable at now.
func (i *Idempotency) Expired(now time.Time) bool { return !i.ExpiresAt.After(now) }
