package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/farmwise-backend/internal/catalog"
	"github.com/tbourn/farmwise-backend/internal/domain"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

const minPhoneLen = 10

// FarmerStore is the subset of repo.Store used by FarmerService.
type FarmerStore interface {
	CreateFarmer(ctx context.Context, in domain.FarmerInput) (*domain.Farmer, error)
	UpdateFarmer(ctx context.Context, id string, in domain.FarmerInput) (*domain.Farmer, error)
	GetFarmer(ctx context.Context, id string) (*domain.Farmer, error)
	GetFarmerByPhone(ctx context.Context, phone string) (*domain.Farmer, error)
}

// FarmerService handles farmer login and profile lookups.
type FarmerService struct {
	Store FarmerStore
}

// NewFarmerService constructs a FarmerService.
func NewFarmerService(st FarmerStore) *FarmerService { return &FarmerService{Store: st} }

// Login upserts a farmer by phone. A known phone updates the existing profile
// (same ID) and keeps the previous language when none is given; a new phone
// creates a profile with language "en" unless one is given. State is stored
// lower-cased. The bool result reports whether a new farmer was created.
func (s *FarmerService) Login(ctx context.Context, in domain.FarmerInput) (*domain.Farmer, bool, error) {
	ctx, span := otel.Tracer("services/FarmerService").Start(ctx, "Login")
	defer span.End()

	in, err := normalizeFarmerInput(in)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.Store.GetFarmerByPhone(ctx, in.Phone)
	switch {
	case err == nil:
		return s.update(ctx, span, existing.ID, in)
	case errors.Is(err, repo.ErrNotFound):
		create := in
		if create.Language == "" {
			create.Language = catalog.DefaultLanguage
		}
		f, err := s.Store.CreateFarmer(ctx, create)
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost a race with a concurrent first login for this phone.
			existing, err := s.Store.GetFarmerByPhone(ctx, in.Phone)
			if err != nil {
				return nil, false, fmt.Errorf("lookup farmer: %w", err)
			}
			return s.update(ctx, span, existing.ID, in)
		}
		if err != nil {
			return nil, false, fmt.Errorf("create farmer: %w", err)
		}
		span.SetAttributes(attribute.String("farmer.id", f.ID), attribute.Bool("farmer.created", true))
		return f, true, nil
	default:
		return nil, false, fmt.Errorf("lookup farmer: %w", err)
	}
}

func (s *FarmerService) update(ctx context.Context, span trace.Span, id string, in domain.FarmerInput) (*domain.Farmer, bool, error) {
	span.SetAttributes(attribute.String("farmer.id", id), attribute.Bool("farmer.created", false))
	f, err := s.Store.UpdateFarmer(ctx, id, in)
	if err != nil {
		return nil, false, fmt.Errorf("update farmer: %w", err)
	}
	return f, false, nil
}

// Get returns a farmer by ID or ErrFarmerNotFound.
func (s *FarmerService) Get(ctx context.Context, id string) (*domain.Farmer, error) {
	ctx, span := otel.Tracer("services/FarmerService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("farmer.id", id)))
	defer span.End()

	f, err := s.Store.GetFarmer(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFarmerNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func normalizeFarmerInput(in domain.FarmerInput) (domain.FarmerInput, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.State = catalog.NormalizeState(in.State)
	in.District = strings.TrimSpace(in.District)
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))

	if len(in.Phone) < minPhoneLen {
		return in, ErrInvalidPhone
	}
	if in.Name == "" || in.State == "" || in.District == "" {
		return in, ErrInvalidProfile
	}
	if in.Language != "" && !catalog.IsLanguage(in.Language) {
		return in, ErrInvalidLanguage
	}
	return in, nil
}
