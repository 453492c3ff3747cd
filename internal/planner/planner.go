// Package planner ties the editor state to the API: it loads a journey into
// the map, saves the current locations, asks for a route, and backs the
// "my journeys" drawer.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/mapstate"
)

// Toast texts shown to the user.
const (
	msgSaved        = "Lưu hành trình thành công!"
	msgSaveFailed   = "Đã có lỗi xảy ra khi lưu."
	msgListFailed   = "Không thể tải danh sách hành trình"
	msgRenamed      = "Đã cập nhật tên hành trình"
	msgRenameFailed = "Lỗi khi cập nhật tên"
	msgNameRequired = "Tên hành trình không được để trống"
	msgRouteFailed  = "Không thể tìm đường"
)

// JourneyAPI is the part of the API the planner needs. *client.Client
// satisfies it.
type JourneyAPI interface {
	ListJourneys(ctx context.Context) ([]domain.Journey, error)
	CreateJourney(ctx context.Context, locs []domain.Location) (domain.Journey, error)
	GetJourney(ctx context.Context, id uuid.UUID) (domain.Journey, error)
	UpdateJourney(ctx context.Context, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error)
	Directions(ctx context.Context, coords [][]float64) (json.RawMessage, error)
}

// Notifier shows short-lived messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Planner edits one journey at a time.
type Planner struct {
	store  *mapstate.Store
	api    JourneyAPI
	notify Notifier
	logger *slog.Logger

	mu      sync.Mutex
	current uuid.UUID
	loadSeq uint64
}

// New returns a Planner working on store.
func New(store *mapstate.Store, api JourneyAPI, notify Notifier, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{store: store, api: api, notify: notify, logger: logger}
}

// Current returns the id of the journey being edited, or uuid.Nil for an
// unsaved one.
func (p *Planner) Current() uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Open switches the editor to journeyID. An empty id starts a fresh journey.
// A failed load is logged and leaves the map as it was. When Open is called
// again before an earlier load finishes, the earlier result is dropped.
func (p *Planner) Open(ctx context.Context, journeyID string) error {
	p.mu.Lock()
	p.loadSeq++
	seq := p.loadSeq
	if journeyID == "" {
		p.current = uuid.Nil
		p.mu.Unlock()
		p.store.Update(mapstate.Reset)
		return nil
	}
	p.mu.Unlock()

	id, err := uuid.Parse(journeyID)
	if err != nil {
		p.logger.Warn("planner: invalid journey id", "journey_id", journeyID)
		return fmt.Errorf("planner.Open: %w", domain.ErrNotFound)
	}

	j, err := p.api.GetJourney(ctx, id)
	if err != nil {
		p.logger.Error("planner: load journey", "journey_id", journeyID, "error", err)
		return fmt.Errorf("planner.Open: %w", err)
	}

	p.mu.Lock()
	if seq != p.loadSeq {
		p.mu.Unlock()
		return nil
	}
	p.current = id
	p.mu.Unlock()

	p.store.Update(func(s mapstate.State) mapstate.State {
		return mapstate.LoadJourney(s, j)
	})
	return nil
}

// Save stores the current locations. An opened journey is updated in place;
// otherwise a new journey is created and becomes the current one, and
// created is true so the caller can navigate to it.
func (p *Planner) Save(ctx context.Context) (id uuid.UUID, created bool, err error) {
	locs := p.store.Snapshot().Locations()
	if len(locs) == 0 {
		return uuid.Nil, false, nil
	}

	current := p.Current()
	if current != uuid.Nil {
		_, err = p.api.UpdateJourney(ctx, current, domain.JourneyPatch{Locations: locs})
		if err != nil {
			p.logger.Error("planner: save journey", "journey_id", current, "error", err)
			p.notify.Error(msgSaveFailed)
			return uuid.Nil, false, fmt.Errorf("planner.Save: %w", err)
		}
		p.notify.Success(msgSaved)
		return current, false, nil
	}

	j, err := p.api.CreateJourney(ctx, locs)
	if err != nil {
		p.logger.Error("planner: create journey", "error", err)
		p.notify.Error(msgSaveFailed)
		return uuid.Nil, false, fmt.Errorf("planner.Save: %w", err)
	}

	p.mu.Lock()
	p.current = j.ID
	p.mu.Unlock()
	p.store.Update(func(s mapstate.State) mapstate.State {
		return mapstate.SetJourneyName(s, j.Name)
	})

	p.notify.Success(msgSaved)
	return j.ID, true, nil
}

// Route fetches directions through the placed locations in order. With
// fewer than two placed locations no request is made and ok is false.
func (p *Planner) Route(ctx context.Context) (route json.RawMessage, ok bool, err error) {
	coords := p.store.Snapshot().RouteCoordinates()
	if len(coords) < 2 {
		return nil, false, nil
	}

	route, err = p.api.Directions(ctx, coords)
	if err != nil {
		p.logger.Error("planner: directions", "points", len(coords), "error", err)
		p.notify.Error(msgRouteFailed)
		return nil, false, fmt.Errorf("planner.Route: %w", err)
	}
	return route, true, nil
}
