package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	"trailmark/pkg/platform/sentinel"
)

// Schema is the DDL for the visits table. Statements are idempotent so
// server startup and test setup can both apply them.
const Schema = `
CREATE TABLE IF NOT EXISTS visits (
	id           UUID PRIMARY KEY,
	owner_id     UUID NOT NULL,
	place_name   TEXT NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	location_key TEXT NOT NULL,
	visit_date   TIMESTAMPTZ NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'active',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	deleted_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_visits_owner_active ON visits (owner_id) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS idx_visits_location_key_active ON visits (location_key) WHERE status = 'active';
`

// EnsureSchema applies the visits schema to the database.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply visits schema: %w", err)
	}
	return nil
}

const visitColumns = `id, owner_id, place_name, latitude, longitude, location_key, visit_date, notes, status, created_at, updated_at, deleted_at`

// PostgresStore persists visits in PostgreSQL. Deleted visits stay as
// tombstone rows so visit IDs cannot be reused, but every read path filters
// them out.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed visit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new visit. Returns ErrConflict if the ID is already
// taken, including by a deleted visit.
func (s *PostgresStore) Create(ctx context.Context, visit *models.Visit) error {
	if visit == nil {
		return fmt.Errorf("visit is required")
	}
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(visit.ID),
		uuid.UUID(visit.OwnerID),
		visit.Location.PlaceName,
		visit.Location.Latitude,
		visit.Location.Longitude,
		string(visit.LocationKey),
		visit.VisitDate,
		visit.Notes,
		string(visit.Status),
		visit.CreatedAt,
		visit.UpdatedAt,
		nullTime(visit.DeletedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// FindByID returns the visit with the given ID. Returns ErrNotFound if it
// does not exist or has been deleted.
func (s *PostgresStore) FindByID(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1 AND status = 'active'`
	visit, err := scanVisit(s.db.QueryRowContext(ctx, query, uuid.UUID(visitID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find visit: %w", err)
	}
	return visit, nil
}

// Execute atomically validates and mutates the visit with the given ID. The
// row is locked with SELECT FOR UPDATE for the duration of both callbacks,
// so concurrent Executes on the same visit serialize and each mutation sees
// the previous one's result. Returns ErrNotFound if the visit does not exist
// or has been deleted.
func (s *PostgresStore) Execute(
	ctx context.Context,
	visitID id.VisitID,
	validate func(*models.Visit) error,
	mutate func(*models.Visit),
) (*models.Visit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin visit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1 AND status = 'active' FOR UPDATE`
	visit, err := scanVisit(tx.QueryRowContext(ctx, query, uuid.UUID(visitID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock visit: %w", err)
	}

	if err := validate(visit); err != nil {
		return nil, err
	}
	mutate(visit)

	_, err = tx.ExecContext(ctx, `
		UPDATE visits
		SET place_name = $2, latitude = $3, longitude = $4, location_key = $5,
		    visit_date = $6, notes = $7, status = $8, updated_at = $9, deleted_at = $10
		WHERE id = $1
	`,
		uuid.UUID(visit.ID),
		visit.Location.PlaceName,
		visit.Location.Latitude,
		visit.Location.Longitude,
		string(visit.LocationKey),
		visit.VisitDate,
		visit.Notes,
		string(visit.Status),
		visit.UpdatedAt,
		nullTime(visit.DeletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("update visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit visit tx: %w", err)
	}
	return visit, nil
}

// ListByOwner returns all active visits owned by ownerID, in no particular
// order.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE owner_id = $1 AND status = 'active'`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("query visits by owner: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// ListActive returns every active visit, in no particular order.
func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE status = 'active'`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active visits: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*models.Visit, error) {
	var (
		visit       models.Visit
		visitID     uuid.UUID
		ownerID     uuid.UUID
		locationKey string
		status      string
		deletedAt   sql.NullTime
	)
	err := row.Scan(
		&visitID,
		&ownerID,
		&visit.Location.PlaceName,
		&visit.Location.Latitude,
		&visit.Location.Longitude,
		&locationKey,
		&visit.VisitDate,
		&visit.Notes,
		&status,
		&visit.CreatedAt,
		&visit.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	visit.ID = id.VisitID(visitID)
	visit.OwnerID = id.UserID(ownerID)
	visit.LocationKey = models.LocationKey(locationKey)
	visit.Status = models.VisitStatus(status)
	if deletedAt.Valid {
		visit.DeletedAt = &deletedAt.Time
	}
	return &visit, nil
}

func scanVisits(rows *sql.Rows) ([]*models.Visit, error) {
	var visits []*models.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return visits, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
