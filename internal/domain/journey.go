// Package domain contains the core data types for the journey planner.
// This package has no dependencies on other internal packages and is imported
// by every layer (repo, service, handler, and the client-side packages).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultJourneyName is the name every journey receives when it is created.
const DefaultJourneyName = "Vi vu"

// Journey is an ordered list of locations saved by one user.
// A journey is visible and mutable only by its owner.
type Journey struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Name      string     `json:"name"`
	Locations []Location `json:"locations"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// JourneyPatch carries a partial update. Nil fields are left untouched.
type JourneyPatch struct {
	Name      *string
	Locations []Location // nil means "not present"; an empty non-nil slice is rejected by validation
}

// IsEmpty reports whether the patch changes nothing.
func (p JourneyPatch) IsEmpty() bool {
	return p.Name == nil && p.Locations == nil
}
