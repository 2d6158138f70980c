package repo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/domain"
)

func TestNewFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore(" ")
	assert.Error(t, err)
}

func TestFileStore_PersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewFileStore(dir)
	require.NoError(t, err)

	f, err := st.CreateFarmer(ctx, sampleInput("9876543210"))
	require.NoError(t, err)

	s := advisor.SoilSample{N: 90, P: 42, K: 43, PH: 6.5, Temperature: 25, Humidity: 70, Rainfall: 400}
	cp := domain.NewCropPrediction(f.ID, s, advisor.Recommend(s))
	require.NoError(t, st.CreateCropPrediction(ctx, cp))
	yp := domain.NewYieldPrediction(f.ID, advisor.EstimateYield(advisor.YieldInput{Crop: "wheat", Season: "Rabi", Area: 3}))
	require.NoError(t, st.CreateYieldPrediction(ctx, yp))

	// Files are pretty-printed with two-space indent.
	raw, err := os.ReadFile(filepath.Join(dir, FarmersFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {"), string(raw))

	var doc map[string]json.RawMessage
	raw, err = os.ReadFile(filepath.Join(dir, PredictionsFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "cropPredictions")
	assert.Contains(t, doc, "yieldPredictions")

	re, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := re.GetFarmerByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	crops, err := re.GetCropPredictions(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, crops, 1)
	assert.Equal(t, cp.ID, crops[0].ID)
	assert.Equal(t, s, crops[0].SoilData.Data())

	back, err := re.GetYieldPrediction(ctx, yp.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.6, back.PredictedProduction, 1e-9)
}

func TestFileStore_CorruptFilesStartEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FarmersFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PredictionsFile), []byte("[]"), 0o644))

	st, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = st.GetFarmerByPhone(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
	crops, err := st.GetCropPredictions(context.Background(), "f")
	require.NoError(t, err)
	assert.Empty(t, crops)
}

func TestFileStore_LoadsSoilReferenceFile(t *testing.T) {
	dir := t.TempDir()
	body := `[{"id":"s1","district":"Ludhiana","N":110,"P":45,"K":40,"ph":7.1,"temperature":22,"humidity":60,"rainfall":700}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SoilDataFile), []byte(body), 0o644))

	st, err := NewFileStore(dir)
	require.NoError(t, err)

	sp, err := st.GetSoilDataByDistrict(context.Background(), "ludhiana")
	require.NoError(t, err)
	assert.Equal(t, "s1", sp.ID)
	assert.Equal(t, 110.0, sp.N)
	assert.Equal(t, 7.1, sp.PH)
}

func TestFileStore_WriteFailureKeepsMemory(t *testing.T) {
	base := t.TempDir()
	// A regular file where the data dir should be makes every flush fail.
	blocker := filepath.Join(base, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	st, err := NewFileStore(blocker)
	require.NoError(t, err)

	f, err := st.CreateFarmer(context.Background(), sampleInput("9999999999"))
	require.NoError(t, err)

	got, err := st.GetFarmer(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "9999999999", got.Phone)
}

func TestFileStore_UpdatePhoneReindexes(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	f, err := st.CreateFarmer(ctx, sampleInput("1111111111"))
	require.NoError(t, err)
	_, err = st.UpdateFarmer(ctx, f.ID, domain.FarmerInput{Phone: "2222222222"})
	require.NoError(t, err)

	_, err = st.GetFarmerByPhone(ctx, "1111111111")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := st.GetFarmerByPhone(ctx, "2222222222")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
}
