// Package mapstate holds the client-side state of the journey editor: the
// ordered location list, the map center, the journey name, the place the user
// last clicked on the map, and the set of open marker popups.
//
// State is an immutable snapshot. Every mutator takes a State and returns a
// new one; nothing is shared between snapshots, so a snapshot handed to a
// renderer never changes underneath it. Store is the single owned container
// that serializes updates and notifies subscribers.
package mapstate

import (
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// DefaultCenter is Ho Chi Minh City.
var DefaultCenter = Center{Lat: 10.762622, Lon: 106.660172}

const (
	initialLocationID   = "initial"
	initialLocationName = "Thành phố Hồ Chí Minh"
)

// Center is a map position in degrees.
type Center struct {
	Lat float64
	Lon float64
}

// ClickedPlace is a point of interest picked from the map background.
// Address and Type are optional.
type ClickedPlace struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
	Type    string
}

// Marker is a placed location as the map draws it.
type Marker struct {
	ID         string
	Name       string
	Lat        float64
	Lon        float64
	Properties *domain.LocationProperties
}

// State is one immutable snapshot of the editor.
type State struct {
	locations   []domain.Location
	center      Center
	journeyName string
	clicked     *ClickedPlace
	popups      Popups
}

// New returns the initial editor state: a single location at the default
// center, no journey name, nothing clicked, no popups.
func New() State {
	return State{
		locations: []domain.Location{{
			ID:   initialLocationID,
			Name: initialLocationName,
			Lat:  DefaultCenter.Lat,
			Lon:  DefaultCenter.Lon,
		}},
		center: DefaultCenter,
	}
}

// Reset discards everything and returns to New.
func Reset(State) State {
	return New()
}

// Locations returns a copy of the ordered location list.
func (s State) Locations() []domain.Location {
	return cloneLocations(s.locations)
}

// Location returns the location with id.
func (s State) Location(id string) (domain.Location, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.Location{}, false
	}
	return cloneLocation(s.locations[i]), true
}

// Len is the number of locations.
func (s State) Len() int { return len(s.locations) }

// Center returns the map center.
func (s State) Center() Center { return s.center }

// JourneyName returns the name of the loaded journey, or "" for a new one.
func (s State) JourneyName() string { return s.journeyName }

// ClickedPlace returns the place picked on the map, if any.
func (s State) ClickedPlace() (ClickedPlace, bool) {
	if s.clicked == nil {
		return ClickedPlace{}, false
	}
	return *s.clicked, true
}

// Popups returns the set of open marker popups.
func (s State) Popups() Popups { return s.popups }

// Markers lists the placed locations in order. Locations at 0/0 have not been
// placed and get no marker.
func (s State) Markers() []Marker {
	markers := make([]Marker, 0, len(s.locations))
	for _, loc := range s.locations {
		if !loc.Placed() {
			continue
		}
		markers = append(markers, Marker{
			ID:         loc.ID,
			Name:       loc.Name,
			Lat:        loc.Lat,
			Lon:        loc.Lon,
			Properties: cloneProperties(loc.Properties),
		})
	}
	return markers
}

// RouteCoordinates returns the placed locations as [lon, lat] pairs, the
// order the directions endpoint expects.
func (s State) RouteCoordinates() [][]float64 {
	var coords [][]float64
	for _, loc := range s.locations {
		if loc.Placed() {
			coords = append(coords, []float64{loc.Lon, loc.Lat})
		}
	}
	return coords
}

// ApplyLocations replaces the location list. When the last location is
// placed the map re-centers on it. An empty list is replaced by one blank
// location so the editor always has a row.
func ApplyLocations(s State, locs []domain.Location) State {
	locs = cloneLocations(locs)
	if len(locs) == 0 {
		locs = []domain.Location{{ID: uuid.NewString()}}
	}
	s.locations = locs
	if last := locs[len(locs)-1]; last.Placed() {
		s.center = Center{Lat: last.Lat, Lon: last.Lon}
	}
	s.popups = s.popups.Prune(s.Markers())
	return s
}

// AddLocation appends an empty, unplaced location with the given id.
// An id already in use leaves the state unchanged.
func AddLocation(s State, id string) State {
	if id == "" || s.index(id) >= 0 {
		return s
	}
	return ApplyLocations(s, append(s.Locations(), domain.Location{ID: id}))
}

// RemoveLocation drops the location with id. Removing the last remaining
// location, or an unknown id, is a no-op.
func RemoveLocation(s State, id string) State {
	i := s.index(id)
	if i < 0 || len(s.locations) <= 1 {
		return s
	}
	locs := s.Locations()
	return ApplyLocations(s, slices.Delete(locs, i, i+1))
}

// SelectResult overwrites the coordinates and name of location id with a
// search candidate. The candidate's display name stands in for a missing
// name. Unparseable coordinates or an unknown id leave the state unchanged.
func SelectResult(s State, id string, r domain.SearchResult) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return s
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return s
	}

	locs := s.Locations()
	locs[i].Lat = lat
	locs[i].Lon = lon
	locs[i].Name = ResultName(r)
	return ApplyLocations(s, locs)
}

// ResultName is the label a candidate gets once chosen.
func ResultName(r domain.SearchResult) string {
	if r.Name != "" {
		return r.Name
	}
	return r.DisplayName
}

// UpdateProperties replaces the notes and links of location id.
func UpdateProperties(s State, id string, props domain.LocationProperties) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	locs := s.Locations()
	locs[i].Properties = cloneProperties(&props)
	s.locations = locs
	return s
}

// SetCenter moves the map.
func SetCenter(s State, c Center) State {
	s.center = c
	return s
}

// SetJourneyName sets the name shown for the loaded journey.
func SetJourneyName(s State, name string) State {
	s.journeyName = name
	return s
}

// SetClickedPlace records the place picked on the map. Nil clears it.
func SetClickedPlace(s State, p *ClickedPlace) State {
	if p == nil {
		s.clicked = nil
		return s
	}
	cp := *p
	s.clicked = &cp
	return s
}

// AddClickedPlace appends the clicked place as a new location with id and
// clears it. The map does not move; it is already showing the place.
func AddClickedPlace(s State, id string) State {
	if s.clicked == nil || id == "" || s.index(id) >= 0 {
		return s
	}
	p := *s.clicked
	s.locations = append(s.Locations(), domain.Location{ID: id, Name: p.Name, Lat: p.Lat, Lon: p.Lon})
	s.clicked = nil
	return s
}

// LoadJourney replaces the editor contents with a saved journey. The map
// re-centers on the first location unless it is unplaced, in which case the
// center is left alone. A journey without locations yields one blank
// location.
func LoadJourney(s State, j domain.Journey) State {
	locs := cloneLocations(j.Locations)
	if len(locs) == 0 {
		locs = []domain.Location{{ID: uuid.NewString()}}
	}
	s.locations = locs
	s.journeyName = j.Name
	s.clicked = nil
	if first := locs[0]; first.Placed() {
		s.center = Center{Lat: first.Lat, Lon: first.Lon}
	}
	s.popups = s.popups.Prune(s.Markers())
	return s
}

// TogglePopup opens the popup of marker id, or closes it when open.
func TogglePopup(s State, id string) State {
	s.popups = s.popups.Toggle(id)
	return s
}

// ClosePopup closes the popup of marker id.
func ClosePopup(s State, id string) State {
	s.popups = s.popups.Close(id)
	return s
}

// ClickMapBackground closes every popup.
func ClickMapBackground(s State) State {
	s.popups = s.popups.Clear()
	return s
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.locations, func(l domain.Location) bool { return l.ID == id })
}

func cloneLocations(locs []domain.Location) []domain.Location {
	if locs == nil {
		return nil
	}
	out := make([]domain.Location, len(locs))
	for i, l := range locs {
		out[i] = cloneLocation(l)
	}
	return out
}

func cloneLocation(l domain.Location) domain.Location {
	l.Properties = cloneProperties(l.Properties)
	return l
}

func cloneProperties(p *domain.LocationProperties) *domain.LocationProperties {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Links = slices.Clone(p.Links)
	return &cp
}
