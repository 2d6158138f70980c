package services

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

func newFileStore(t *testing.T) *repo.FileStore {
	t.Helper()
	st, err := repo.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return st
}

func loginInput() domain.FarmerInput {
	return domain.FarmerInput{Phone: " 9876543210 ", Name: "Ravi", State: "Tamil Nadu", District: "madurai"}
}

func TestFarmerService_LoginCreatesThenUpdates(t *testing.T) {
	svc := NewFarmerService(newFileStore(t))
	ctx := context.Background()

	f, created, err := svc.Login(ctx, loginInput())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "9876543210", f.Phone)
	assert.Equal(t, "tamil nadu", f.State)
	assert.Equal(t, "en", f.Language)

	in := loginInput()
	in.Language = "ta"
	g, created, err := svc.Login(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f.ID, g.ID, "same phone keeps the same farmer")
	assert.Equal(t, "ta", g.Language)

	// No language on a later login keeps the stored one.
	in = loginInput()
	in.Name = "Ravi K"
	h, _, err := svc.Login(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, f.ID, h.ID)
	assert.Equal(t, "ta", h.Language)
	assert.Equal(t, "Ravi K", h.Name)
}

// yieldingStore reschedules between the phone lookup and the create so that
// concurrent first logins interleave.
type yieldingStore struct{ *repo.FileStore }

func (s yieldingStore) GetFarmerByPhone(ctx context.Context, phone string) (*domain.Farmer, error) {
	f, err := s.FileStore.GetFarmerByPhone(ctx, phone)
	runtime.Gosched()
	return f, err
}

func TestFarmerService_ConcurrentFirstLoginsShareOneFarmer(t *testing.T) {
	st := newFileStore(t)
	svc := NewFarmerService(yieldingStore{st})
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, _, err := svc.Login(ctx, loginInput())
			errs[i] = err
			if f != nil {
				ids[i] = f.ID
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	f, err := st.GetFarmerByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, ids[0], f.ID)
}

type duplicateOnCreateStore struct {
	FarmerStore
	existing *domain.Farmer
	lookups  int
}

func (s *duplicateOnCreateStore) GetFarmerByPhone(context.Context, string) (*domain.Farmer, error) {
	s.lookups++
	if s.lookups == 1 {
		return nil, repo.ErrNotFound
	}
	return s.existing, nil
}

func (s *duplicateOnCreateStore) CreateFarmer(context.Context, domain.FarmerInput) (*domain.Farmer, error) {
	return nil, repo.ErrDuplicate
}

func (s *duplicateOnCreateStore) UpdateFarmer(_ context.Context, id string, in domain.FarmerInput) (*domain.Farmer, error) {
	out := *s.existing
	out.Name = in.Name
	return &out, nil
}

func TestFarmerService_LoginFallsBackToUpdateOnDuplicate(t *testing.T) {
	st := &duplicateOnCreateStore{existing: &domain.Farmer{ID: "f-1", Phone: "9876543210", Language: "en"}}
	svc := NewFarmerService(st)

	f, created, err := svc.Login(context.Background(), loginInput())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "f-1", f.ID)
	assert.Equal(t, "Ravi", f.Name)
	assert.Equal(t, 2, st.lookups)
}

func TestFarmerService_LoginValidation(t *testing.T) {
	svc := NewFarmerService(newFileStore(t))
	ctx := context.Background()

	in := loginInput()
	in.Phone = "12345"
	_, _, err := svc.Login(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidPhone)

	in = loginInput()
	in.District = " "
	_, _, err = svc.Login(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	in = loginInput()
	in.Language = "xx"
	_, _, err = svc.Login(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestFarmerService_Get(t *testing.T) {
	svc := NewFarmerService(newFileStore(t))
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrFarmerNotFound)

	f, _, err := svc.Login(ctx, loginInput())
	require.NoError(t, err)
	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
}

type brokenFarmerStore struct{ FarmerStore }

func (brokenFarmerStore) GetFarmerByPhone(context.Context, string) (*domain.Farmer, error) {
	return nil, errors.New("disk on fire")
}

func (brokenFarmerStore) GetFarmer(context.Context, string) (*domain.Farmer, error) {
	return nil, errors.New("disk on fire")
}

func TestFarmerService_StoreErrorsPropagate(t *testing.T) {
	svc := NewFarmerService(brokenFarmerStore{})
	_, _, err := svc.Login(context.Background(), loginInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup farmer")

	_, err = svc.Get(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFarmerNotFound))
}
