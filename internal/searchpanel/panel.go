// Package searchpanel drives the per-location search boxes of the journey
// editor. Each row is keyed by its location id and debounces its own input;
// a response is applied only if it answers the row's latest request, so a
// slow early search can never overwrite a later one.
package searchpanel

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/mapstate"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search is sent.
const DefaultDebounce = time.Second

// Searcher is the place search backend, normally the API client.
type Searcher interface {
	Search(ctx context.Context, q string) ([]domain.SearchResult, error)
}

// Phase is where a row is in its search cycle.
type Phase int

const (
	Idle Phase = iota
	Typing
	Loading
	ShowingResults
	Selected
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Loading:
		return "loading"
	case ShowingResults:
		return "showing_results"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Row is a read-only view of one search box.
type Row struct {
	ID      string
	Query   string
	Phase   Phase
	Results []domain.SearchResult
}

// Loading reports whether a request is outstanding for the row.
func (r Row) Loading() bool { return r.Phase == Loading }

type row struct {
	query   string
	phase   Phase
	results []domain.SearchResult

	// seq numbers the row's requests; only a response carrying the current
	// value is applied.
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// Panel owns the search rows for one map store.
type Panel struct {
	store    *mapstate.Store
	searcher Searcher
	debounce time.Duration
	newID    func() string
	logger   *slog.Logger

	ctx    context.Context
	stop   context.CancelFunc
	unsub  func()
	flight sync.WaitGroup

	mu     sync.Mutex
	closed bool
	rows   map[string]*row
	order  []string
	active string
}

// Option configures a Panel.
type Option func(*Panel)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(p *Panel) { p.debounce = d }
}

// WithLogger sets the logger used for failed searches.
func WithLogger(l *slog.Logger) Option {
	return func(p *Panel) { p.logger = l }
}

// WithIDGenerator sets the function that names rows created by AddRow.
func WithIDGenerator(fn func() string) Option {
	return func(p *Panel) { p.newID = fn }
}

// New builds a Panel over store and starts following its location list.
// Call Close to release it.
func New(store *mapstate.Store, searcher Searcher, opts ...Option) *Panel {
	ctx, stop := context.WithCancel(context.Background())
	p := &Panel{
		store:    store,
		searcher: searcher,
		debounce: DefaultDebounce,
		newID:    uuid.NewString,
		logger:   slog.Default(),
		ctx:      ctx,
		stop:     stop,
		rows:     make(map[string]*row),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.sync(store.Snapshot())
	p.unsub = store.Subscribe(p.sync)
	return p
}

// Close stops following the store, cancels pending timers and requests, and
// waits for outstanding work to finish. Type is ignored once Close has begun.
func (p *Panel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.unsub()
	p.ClickOutside()
	p.stop()
	p.flight.Wait()
}

// Wait blocks until no debounce timer is pending and no request is in
// flight. It must not run concurrently with Type; input arriving during Wait
// belongs to the next Wait.
func (p *Panel) Wait() {
	p.flight.Wait()
}

// Type records new text for row id and restarts its debounce window.
func (p *Panel) Type(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	r, ok := p.rows[id]
	if !ok {
		return
	}
	p.invalidate(r)
	r.query = text
	r.phase = Typing
	r.results = nil
	if p.active == id {
		p.active = ""
	}

	r.seq++
	seq := r.seq
	p.flight.Add(1)
	r.timer = time.AfterFunc(p.debounce, func() { p.fire(id, seq) })
}

// fire runs when a row's debounce window closes.
func (p *Panel) fire(id string, seq uint64) {
	defer p.flight.Done()

	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.rows[id]
	if !ok || r.seq != seq {
		return
	}
	r.timer = nil

	q := strings.TrimSpace(r.query)
	if q == "" {
		r.phase = Idle
		r.results = nil
		if p.active == id {
			p.active = ""
		}
		return
	}

	r.seq++
	seq = r.seq
	r.phase = Loading
	ctx, cancel := context.WithCancel(p.ctx)
	r.cancel = cancel

	p.flight.Add(1)
	go p.search(ctx, cancel, id, q, seq)
}

func (p *Panel) search(ctx context.Context, cancel context.CancelFunc, id, q string, seq uint64) {
	defer p.flight.Done()
	defer cancel()

	results, err := p.searcher.Search(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.rows[id]
	if !ok || r.seq != seq {
		return
	}
	r.cancel = nil

	if err != nil {
		p.logger.Error("searchpanel: search failed", "row", id, "query", q, "error", err)
		r.phase = Idle
		r.results = nil
		if p.active == id {
			p.active = ""
		}
		return
	}

	// Only one dropdown is open at a time.
	if prev, ok := p.rows[p.active]; ok && p.active != id {
		prev.phase = Idle
		prev.results = nil
	}
	r.phase = ShowingResults
	r.results = results
	p.active = id
}

// Select picks result index from the open dropdown of row id and writes it
// into the location. It does nothing unless row id owns the dropdown.
func (p *Panel) Select(id string, index int) bool {
	p.mu.Lock()
	r, ok := p.rows[id]
	if !ok || p.active != id || r.phase != ShowingResults || index < 0 || index >= len(r.results) {
		p.mu.Unlock()
		return false
	}
	chosen := r.results[index]
	p.invalidate(r)
	r.seq++
	r.phase = Selected
	r.query = mapstate.ResultName(chosen)
	r.results = nil
	p.active = ""
	p.mu.Unlock()

	// The store notifies p.sync synchronously, which takes p.mu.
	p.store.Update(func(s mapstate.State) mapstate.State {
		return mapstate.SelectResult(s, id, chosen)
	})
	return true
}

// ClickOutside closes the dropdown and drops every pending search.
func (p *Panel) ClickOutside() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, r := range p.rows {
		p.invalidate(r)
		r.seq++
		r.phase = Idle
		r.results = nil
	}
	p.active = ""
}

// AddRow appends a blank location and returns its id.
func (p *Panel) AddRow() string {
	id := p.newID()
	p.store.Update(func(s mapstate.State) mapstate.State {
		return mapstate.AddLocation(s, id)
	})
	return id
}

// RemoveRow deletes the location of row id. The last remaining row stays.
func (p *Panel) RemoveRow(id string) {
	p.store.Update(func(s mapstate.State) mapstate.State {
		return mapstate.RemoveLocation(s, id)
	})
}

// Rows returns the rows in location order.
func (p *Panel) Rows() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Row, 0, len(p.order))
	for _, id := range p.order {
		r := p.rows[id]
		out = append(out, Row{
			ID:      id,
			Query:   r.query,
			Phase:   r.phase,
			Results: append([]domain.SearchResult(nil), r.results...),
		})
	}
	return out
}

// Row returns the row for id.
func (p *Panel) Row(id string) (Row, bool) {
	for _, r := range p.Rows() {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Active returns the id of the row whose dropdown is open.
func (p *Panel) Active() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active, p.active != ""
}

// sync reconciles rows with the store's location list. Rows for removed
// locations are dropped with their pending work; new locations get an idle
// row showing the location name. A settled row follows its location's name.
func (p *Panel) sync(s mapstate.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	locs := s.Locations()
	seen := make(map[string]struct{}, len(locs))
	order := make([]string, 0, len(locs))
	for _, loc := range locs {
		seen[loc.ID] = struct{}{}
		order = append(order, loc.ID)

		r, ok := p.rows[loc.ID]
		if !ok {
			p.rows[loc.ID] = &row{query: loc.Name}
			continue
		}
		if r.phase == Idle || r.phase == Selected {
			r.query = loc.Name
		}
	}

	for id, r := range p.rows {
		if _, ok := seen[id]; ok {
			continue
		}
		p.invalidate(r)
		delete(p.rows, id)
		if p.active == id {
			p.active = ""
		}
	}
	p.order = order
}

// invalidate stops the row's timer and cancels its request. The caller must
// hold p.mu and bump r.seq if the row stays.
func (p *Panel) invalidate(r *row) {
	if r.timer != nil {
		if r.timer.Stop() {
			p.flight.Done()
		}
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
