package planner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// Drawer lists the user's saved journeys.
type Drawer struct {
	api    JourneyAPI
	notify Notifier
	logger *slog.Logger

	mu       sync.Mutex
	open     bool
	loading  bool
	journeys []domain.Journey
}

// NewDrawer returns a closed drawer.
func NewDrawer(api JourneyAPI, notify Notifier, logger *slog.Logger) *Drawer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Drawer{api: api, notify: notify, logger: logger}
}

// Open shows the drawer and refreshes the list. On failure the previous
// list is kept.
func (d *Drawer) Open(ctx context.Context) error {
	d.mu.Lock()
	d.open = true
	d.loading = true
	d.mu.Unlock()

	journeys, err := d.api.ListJourneys(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		d.logger.Error("planner: list journeys", "error", err)
		d.notify.Error(msgListFailed)
		return fmt.Errorf("planner.Drawer.Open: %w", err)
	}
	d.journeys = journeys
	return nil
}

// Close hides the drawer.
func (d *Drawer) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}

// IsOpen reports whether the drawer is shown.
func (d *Drawer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Loading reports whether the list is being fetched.
func (d *Drawer) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Journeys returns the cached list.
func (d *Drawer) Journeys() []domain.Journey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.journeys)
}

// Rename changes the name of journey id. An unchanged name makes no call.
func (d *Drawer) Rename(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		d.notify.Error(msgNameRequired)
		return fmt.Errorf("planner.Drawer.Rename: %w: name is required", domain.ErrValidation)
	}

	d.mu.Lock()
	i := slices.IndexFunc(d.journeys, func(j domain.Journey) bool { return j.ID == id })
	if i >= 0 && d.journeys[i].Name == name {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	updated, err := d.api.UpdateJourney(ctx, id, domain.JourneyPatch{Name: &name})
	if err != nil {
		d.logger.Error("planner: rename journey", "journey_id", id, "error", err)
		d.notify.Error(msgRenameFailed)
		return fmt.Errorf("planner.Drawer.Rename: %w", err)
	}

	d.mu.Lock()
	for k := range d.journeys {
		if d.journeys[k].ID == id {
			d.journeys[k].Name = updated.Name
		}
	}
	d.mu.Unlock()

	d.notify.Success(msgRenamed)
	return nil
}

// Select closes the drawer and returns the journey to navigate to.
func (d *Drawer) Select(id uuid.UUID) uuid.UUID {
	d.Close()
	return id
}
