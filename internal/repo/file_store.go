package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/farmwise-backend/internal/domain"
)

// File names inside the data directory.
const (
	FarmersFile     = "farmers.json"
	SoilDataFile    = "soil_data.json"
	PredictionsFile = "predictions.json"
)

// predictionsDoc is the on-disk layout of PredictionsFile.
type predictionsDoc struct {
	CropPredictions  []domain.CropPrediction  `json:"cropPredictions"`
	YieldPredictions []domain.YieldPrediction `json:"yieldPredictions"`
}

// FileStore keeps every collection in memory and rewrites the affected JSON
// file in full after each mutation.
//
// Writes to disk are serialized and last-write-wins: each flush snapshots the
// current in-memory state, so the file always reflects a state at least as new
// as the mutation that triggered it. A failed flush is logged and the
// in-memory mutation stands. Idempotency records are never written to disk.
type FileStore struct {
	dir string

	mu       sync.RWMutex
	farmers  map[string]*domain.Farmer
	order    []string          // farmer IDs in creation order
	byPhone  map[string]string // phone -> farmer ID
	soil     map[string]domain.SoilProfile
	crops    []domain.CropPrediction
	cropIdx  map[string]int
	yields   []domain.YieldPrediction
	yieldIdx map[string]int
	idem     map[string]domain.Idempotency

	flushMu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads dir's JSON files into memory. Missing or unreadable
// files are logged and treated as empty collections.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data dir is required")
	}
	s := &FileStore{
		dir:      dir,
		farmers:  make(map[string]*domain.Farmer),
		byPhone:  make(map[string]string),
		soil:     make(map[string]domain.SoilProfile),
		cropIdx:  make(map[string]int),
		yieldIdx: make(map[string]int),
		idem:     make(map[string]domain.Idempotency),
	}
	s.load()
	return s, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) load() {
	var farmers []domain.Farmer
	if s.readJSON(FarmersFile, &farmers) {
		for i := range farmers {
			f := farmers[i]
			if _, dup := s.farmers[f.ID]; !dup {
				s.order = append(s.order, f.ID)
			}
			s.farmers[f.ID] = &f
			s.byPhone[f.Phone] = f.ID
		}
	}

	var soil []domain.SoilProfile
	if s.readJSON(SoilDataFile, &soil) {
		for _, sp := range soil {
			s.soil[districtKey(sp.District)] = sp
		}
	}

	var preds predictionsDoc
	if s.readJSON(PredictionsFile, &preds) {
		for _, p := range preds.CropPredictions {
			s.cropIdx[p.ID] = len(s.crops)
			s.crops = append(s.crops, p)
		}
		for _, p := range preds.YieldPredictions {
			s.yieldIdx[p.ID] = len(s.yields)
			s.yields = append(s.yields, p)
		}
	}

	log.Info().
		Str("dir", s.dir).
		Int("farmers", len(s.farmers)).
		Int("soil_districts", len(s.soil)).
		Int("crop_predictions", len(s.crops)).
		Int("yield_predictions", len(s.yields)).
		Msg("file store loaded")
}

// readJSON decodes name into v. It reports false when the file is missing or
// corrupt; corruption is logged.
func (s *FileStore) readJSON(name string, v any) bool {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", name).Msg("read data file")
		}
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("corrupt data file, starting empty")
		return false
	}
	return true
}

// flush rewrites name with the value produced by snapshot. snapshot runs
// under the read lock.
func (s *FileStore) flush(name string, snapshot func() any) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	b, err := json.MarshalIndent(snapshot(), "", "  ")
	s.mu.RUnlock()
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("encode data file")
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("create data dir")
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
		log.Error().Err(err).Str("file", name).Msg("write data file")
	}
}

func (s *FileStore) farmersSnapshot() any {
	out := make([]domain.Farmer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.farmers[id])
	}
	return out
}

func (s *FileStore) soilSnapshot() any {
	out := make([]domain.SoilProfile, 0, len(s.soil))
	for _, sp := range s.soil {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].District < out[j].District })
	return out
}

func (s *FileStore) predictionsSnapshot() any {
	return predictionsDoc{
		CropPredictions:  append([]domain.CropPrediction{}, s.crops...),
		YieldPredictions: append([]domain.YieldPrediction{}, s.yields...),
	}
}

//
// Farmers
//

func (s *FileStore) CreateFarmer(_ context.Context, in domain.FarmerInput) (*domain.Farmer, error) {
	now := time.Now().UTC()
	f := &domain.Farmer{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	mergeFarmer(f, in)

	s.mu.Lock()
	if _, taken := s.byPhone[f.Phone]; taken {
		s.mu.Unlock()
		return nil, ErrDuplicate
	}
	s.farmers[f.ID] = f
	s.order = append(s.order, f.ID)
	s.byPhone[f.Phone] = f.ID
	out := *f
	s.mu.Unlock()

	s.flush(FarmersFile, s.farmersSnapshot)
	return &out, nil
}

func (s *FileStore) UpdateFarmer(_ context.Context, id string, in domain.FarmerInput) (*domain.Farmer, error) {
	s.mu.Lock()
	f, ok := s.farmers[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	oldPhone := f.Phone
	mergeFarmer(f, in)
	f.UpdatedAt = time.Now().UTC()
	if f.Phone != oldPhone {
		delete(s.byPhone, oldPhone)
		s.byPhone[f.Phone] = f.ID
	}
	out := *f
	s.mu.Unlock()

	s.flush(FarmersFile, s.farmersSnapshot)
	return &out, nil
}

func (s *FileStore) GetFarmer(_ context.Context, id string) (*domain.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.farmers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *f
	return &out, nil
}

func (s *FileStore) GetFarmerByPhone(ctx context.Context, phone string) (*domain.Farmer, error) {
	s.mu.RLock()
	id, ok := s.byPhone[phone]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetFarmer(ctx, id)
}

//
// Soil reference data
//

func (s *FileStore) GetSoilDataByDistrict(_ context.Context, district string) (*domain.SoilProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.soil[districtKey(district)]
	if !ok {
		return nil, ErrNotFound
	}
	return &sp, nil
}

func (s *FileStore) UpsertSoilData(_ context.Context, rows []domain.SoilProfile) (int, error) {
	n := 0
	s.mu.Lock()
	for _, r := range rows {
		key := districtKey(r.District)
		if key == "" {
			continue
		}
		r.District = key
		if prev, ok := s.soil[key]; ok && r.ID == "" {
			r.ID = prev.ID
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.soil[key] = r
		n++
	}
	s.mu.Unlock()

	if n > 0 {
		s.flush(SoilDataFile, s.soilSnapshot)
	}
	return n, nil
}

//
// Predictions
//

func (s *FileStore) CreateCropPrediction(_ context.Context, p *domain.CropPrediction) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.cropIdx[p.ID] = len(s.crops)
	s.crops = append(s.crops, *p)
	s.mu.Unlock()

	s.flush(PredictionsFile, s.predictionsSnapshot)
	return nil
}

func (s *FileStore) CreateYieldPrediction(_ context.Context, p *domain.YieldPrediction) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.yieldIdx[p.ID] = len(s.yields)
	s.yields = append(s.yields, *p)
	s.mu.Unlock()

	s.flush(PredictionsFile, s.predictionsSnapshot)
	return nil
}

func (s *FileStore) GetCropPrediction(_ context.Context, id string) (*domain.CropPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.cropIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := s.crops[i]
	return &p, nil
}

func (s *FileStore) GetYieldPrediction(_ context.Context, id string) (*domain.YieldPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.yieldIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := s.yields[i]
	return &p, nil
}

func (s *FileStore) GetCropPredictions(_ context.Context, farmerID string) ([]domain.CropPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.CropPrediction{}
	for _, p := range s.crops {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FileStore) GetYieldPredictions(_ context.Context, farmerID string) ([]domain.YieldPrediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.YieldPrediction{}
	for _, p := range s.yields {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FileStore) PredictionStats(_ context.Context, farmerID string) (int64, *time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		count  int64
		latest *time.Time
	)
	see := func(ts time.Time) {
		count++
		if latest == nil || ts.After(*latest) {
			t := ts
			latest = &t
		}
	}
	for _, p := range s.crops {
		if p.FarmerID == farmerID {
			see(p.CreatedAt)
		}
	}
	for _, p := range s.yields {
		if p.FarmerID == farmerID {
			see(p.CreatedAt)
		}
	}
	return count, latest, nil
}

//
// Idempotency
//

func idemKey(scope, kind, key string) string { return scope + "\x00" + kind + "\x00" + key }

func (s *FileStore) GetIdempotency(_ context.Context, scope, kind, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.idem[idemKey(scope, kind, key)]
	if !ok || rec.Expired(now) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *FileStore) CreateIdempotency(_ context.Context, scope, kind, key, predictionID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	k := idemKey(scope, kind, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.idem[k]; ok && !prev.Expired(now) {
		return nil, ErrDuplicate
	}
	rec := domain.Idempotency{
		ID:           uuid.NewString(),
		Scope:        scope,
		Kind:         kind,
		Key:          key,
		PredictionID: predictionID,
		Status:       status,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	s.idem[k] = rec
	return &rec, nil
}

// Close is a no-op; every mutation has already been flushed.
func (s *FileStore) Close() error { return nil }
