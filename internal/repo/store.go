// Package repo implements the record store for farmers, soil reference data,
// predictions and idempotency bookkeeping.
//
// Two backends satisfy Store:
//
//   - FileStore keeps every collection in memory and rewrites one JSON file
//     per collection after each mutation (the default).
//   - SQLStore persists through GORM on the pure-Go SQLite driver, using the
//     thin free functions in this package (CreateFarmer, GetFarmer, ...).
//
// Error semantics:
//   - Missing records yield ErrNotFound (an alias of gorm.ErrRecordNotFound so
//     both backends and the raw GORM helpers agree).
//   - A second idempotency record for the same (scope, kind, key), or a
//     second farmer with the same phone, yields ErrDuplicate.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a unique key is already taken: an idempotency
// (scope, kind, key) tuple or a farmer phone.
var ErrDuplicate = errors.New("duplicate")

// Store is the persistence contract used by the service layer.
//
// Implementations must be safe for concurrent use.
type Store interface {
	CreateFarmer(ctx context.Context, in domain.FarmerInput) (*domain.Farmer, error)
	UpdateFarmer(ctx context.Context, id string, in domain.FarmerInput) (*domain.Farmer, error)
	GetFarmer(ctx context.Context, id string) (*domain.Farmer, error)
	GetFarmerByPhone(ctx context.Context, phone string) (*domain.Farmer, error)

	GetSoilDataByDistrict(ctx context.Context, district string) (*domain.SoilProfile, error)
	UpsertSoilData(ctx context.Context, rows []domain.SoilProfile) (int, error)

	CreateCropPrediction(ctx context.Context, p *domain.CropPrediction) error
	CreateYieldPrediction(ctx context.Context, p *domain.YieldPrediction) error
	GetCropPrediction(ctx context.Context, id string) (*domain.CropPrediction, error)
	GetYieldPrediction(ctx context.Context, id string) (*domain.YieldPrediction, error)
	GetCropPredictions(ctx context.Context, farmerID string) ([]domain.CropPrediction, error)
	GetYieldPredictions(ctx context.Context, farmerID string) ([]domain.YieldPrediction, error)
	PredictionStats(ctx context.Context, farmerID string) (count int64, latest *time.Time, err error)

	GetIdempotency(ctx context.Context, scope, kind, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, scope, kind, key, predictionID string, status int, ttl time.Duration) (*domain.Idempotency, error)

	Close() error
}

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver  string
	DataDir string // FileStore directory
	DBPath  string // SQLStore database file
	Tracing bool   // register the GORM OpenTelemetry plugin
}

// Open constructs the backend named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFile:
		return NewFileStore(opts.DataDir)
	case DriverSQLite:
		db, err := OpenSQLite(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if opts.Tracing {
			if err := EnableTracing(db); err != nil {
				return nil, fmt.Errorf("gorm tracing: %w", err)
			}
		}
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// districtKey normalizes district names for lookups.
func districtKey(d string) string { return strings.ToLower(strings.TrimSpace(d)) }

// mergeFarmer applies the non-empty fields of in to f.
func mergeFarmer(f *domain.Farmer, in domain.FarmerInput) {
	if in.Phone != "" {
		f.Phone = in.Phone
	}
	if in.Name != "" {
		f.Name = in.Name
	}
	if in.Email != "" {
		f.Email = in.Email
	}
	if in.State != "" {
		f.State = in.State
	}
	if in.District != "" {
		f.District = in.District
	}
	if in.Language != "" {
		f.Language = in.Language
	}
}

// isUniqueViolation recognizes UNIQUE failures; glebarez/sqlite often returns
// plain-text errors for them.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
