package mapstate

import (
	"maps"
	"slices"
)

// Popups is the immutable set of marker ids whose popup is open. Several
// popups can be open at once. The zero value is an empty set.
type Popups struct {
	open map[string]struct{}
}

// IsOpen reports whether the popup of id is open.
func (p Popups) IsOpen(id string) bool {
	_, ok := p.open[id]
	return ok
}

// Len is the number of open popups.
func (p Popups) Len() int { return len(p.open) }

// IDs returns the open ids in sorted order.
func (p Popups) IDs() []string {
	return slices.Sorted(maps.Keys(p.open))
}

// Toggle opens id when closed and closes it when open.
func (p Popups) Toggle(id string) Popups {
	next := p.clone()
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return Popups{open: next}
}

// Close closes id. Closing a closed popup changes nothing.
func (p Popups) Close(id string) Popups {
	if !p.IsOpen(id) {
		return p
	}
	next := p.clone()
	delete(next, id)
	return Popups{open: next}
}

// Clear closes every popup.
func (p Popups) Clear() Popups {
	return Popups{}
}

// Prune closes popups whose marker is no longer on the map.
func (p Popups) Prune(markers []Marker) Popups {
	if len(p.open) == 0 {
		return p
	}
	present := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		present[m.ID] = struct{}{}
	}
	next := make(map[string]struct{}, len(p.open))
	for id := range p.open {
		if _, ok := present[id]; ok {
			next[id] = struct{}{}
		}
	}
	return Popups{open: next}
}

func (p Popups) clone() map[string]struct{} {
	next := make(map[string]struct{}, len(p.open)+1)
	maps.Copy(next, p.open)
	return next
}
