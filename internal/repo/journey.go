// Package repo contains all database access logic for the journey planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vivu-app/journey-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JourneyRepo defines the persistence operations for Journeys.
// Every read and write is scoped by owner: a journey that exists but belongs
// to someone else behaves exactly like one that does not exist.
type JourneyRepo interface {
	// Create inserts a new journey and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, journey domain.Journey) (domain.Journey, error)

	// ListByOwner returns all journeys owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Journey, error)

	// GetByID retrieves a journey by id and owner.
	// Returns domain.ErrNotFound if no journey matches both.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Journey, error)

	// Update applies the non-nil fields of patch and returns the updated record.
	// Returns domain.ErrNotFound if no journey matches both id and owner.
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error)
}

// pgJourneyRepo is the Postgres implementation of JourneyRepo.
type pgJourneyRepo struct {
	db db
}

// NewJourneyRepo constructs a JourneyRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewJourneyRepo(db db) JourneyRepo {
	return &pgJourneyRepo{db: db}
}

const journeyColumns = `id, owner_id, name, locations, created_at, updated_at`

// Create inserts a new journey row and returns the full persisted record.
func (r *pgJourneyRepo) Create(ctx context.Context, journey domain.Journey) (domain.Journey, error) {
	const q = `
		INSERT INTO journeys (owner_id, name, locations)
		VALUES (@owner_id, @name, @locations::jsonb)
		RETURNING ` + journeyColumns

	locs, err := encodeLocations(journey.Locations)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"owner_id":  journey.OwnerID,
		"name":      journey.Name,
		"locations": locs,
	}

	result, err := scanJourney(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Create: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's journeys ordered by created_at descending.
func (r *pgJourneyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	const q = `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var journeys []domain.Journey
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.JourneyRepo.ListByOwner: scan: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListByOwner: rows: %w", err)
	}

	return journeys, nil
}

// GetByID retrieves a journey by primary key, scoped to its owner.
func (r *pgJourneyRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Journey, error) {
	const q = `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE id = @id AND owner_id = @owner_id`

	result, err := scanJourney(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites only the columns present in patch. NULL parameters fall
// through COALESCE to the current value.
func (r *pgJourneyRepo) Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error) {
	const q = `
		UPDATE journeys
		SET name       = COALESCE(@name::text, name),
		    locations  = COALESCE(@locations::jsonb, locations),
		    updated_at = now()
		WHERE id = @id AND owner_id = @owner_id
		RETURNING ` + journeyColumns

	var locs *string
	if patch.Locations != nil {
		encoded, err := encodeLocations(patch.Locations)
		if err != nil {
			return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Update: %w", err)
		}
		locs = &encoded
	}

	args := pgx.NamedArgs{
		"id":        id,
		"owner_id":  ownerID,
		"name":      patch.Name, // nil becomes NULL
		"locations": locs,
	}

	result, err := scanJourney(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Update: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanJourney to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanJourney maps a single database row into a domain.Journey.
// The locations column is JSONB and is decoded into the domain slice.
func scanJourney(s scanner) (domain.Journey, error) {
	var (
		j    domain.Journey
		id   pgtype.UUID
		locs []byte
	)

	err := s.Scan(&id, &j.OwnerID, &j.Name, &locs, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journey{}, domain.ErrNotFound
		}
		return domain.Journey{}, err
	}

	j.ID = uuid.UUID(id.Bytes)
	j.Locations = []domain.Location{}
	if len(locs) > 0 {
		if err := json.Unmarshal(locs, &j.Locations); err != nil {
			return domain.Journey{}, fmt.Errorf("decode locations: %w", err)
		}
	}

	return j, nil
}

// encodeLocations renders the location list as JSON text for a jsonb parameter.
// A nil slice is stored as an empty array, never as JSON null.
func encodeLocations(locs []domain.Location) (string, error) {
	if locs == nil {
		locs = []domain.Location{}
	}
	b, err := json.Marshal(locs)
	if err != nil {
		return "", fmt.Errorf("encode locations: %w", err)
	}
	return string(b), nil
}
