// Package service contains the business logic for the journey planner API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// upstream calls. No SQL or HTTP lives here.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/repo"
)

// JourneyService implements business logic for Journey operations.
// Every method takes the caller's user id; an empty one is ErrUnauthorized.
type JourneyService struct {
	repo repo.JourneyRepo
}

// NewJourneyService constructs a JourneyService backed by the provided JourneyRepo.
func NewJourneyService(r repo.JourneyRepo) *JourneyService {
	return &JourneyService{repo: r}
}

// Create validates locations and stores a new journey under the default name.
func (s *JourneyService) Create(ctx context.Context, ownerID string, locations []domain.Location) (domain.Journey, error) {
	if ownerID == "" {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Create: %w", domain.ErrUnauthorized)
	}
	if err := validateLocations(locations); err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Journey{
		OwnerID:   ownerID,
		Name:      domain.DefaultJourneyName,
		Locations: locations,
	})
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Create: %w", err)
	}
	return created, nil
}

// List returns the caller's journeys, newest first. Never nil.
func (s *JourneyService) List(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service.JourneyService.List: %w", domain.ErrUnauthorized)
	}

	journeys, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.JourneyService.List: %w", err)
	}
	if journeys == nil {
		journeys = []domain.Journey{}
	}
	return journeys, nil
}

// Get returns one of the caller's journeys.
func (s *JourneyService) Get(ctx context.Context, ownerID string, id uuid.UUID) (domain.Journey, error) {
	if ownerID == "" {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Get: %w", domain.ErrUnauthorized)
	}

	j, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Get: %w", err)
	}
	return j, nil
}

// Update applies patch to one of the caller's journeys. The name is stored
// trimmed. An empty patch returns the journey untouched.
func (s *JourneyService) Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error) {
	if ownerID == "" {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", domain.ErrUnauthorized)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w: name must not be blank", domain.ErrValidation)
		}
		patch.Name = &name
	}
	if patch.Locations != nil {
		if err := validateLocations(patch.Locations); err != nil {
			return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", err)
		}
	}

	if patch.IsEmpty() {
		j, err := s.repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", err)
		}
		return j, nil
	}

	updated, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", err)
	}
	return updated, nil
}
