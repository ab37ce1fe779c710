package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

var (
	// ErrStationNameExists is returned when attempting to create a station with a duplicate name.
	ErrStationNameExists = errors.New("station name already exists")
)

// SQL query constants for static station queries.
const (
	stationGetByIDQuery = `
		SELECT id, name, type, is_active, created_at, updated_at
		FROM stations
		WHERE id = $1`

	stationListAllQuery = `
		SELECT id, name, type, is_active, created_at, updated_at
		FROM stations
		ORDER BY name ASC`

	stationListActiveQuery = `
		SELECT id, name, type, is_active, created_at, updated_at
		FROM stations
		WHERE is_active
		ORDER BY name ASC`
)

// StationRepo provides database operations for floor stations.
type StationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewStationRepo creates a new StationRepo with real time provider.
func NewStationRepo(db *sql.DB) *StationRepo {
	return &StationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewStationRepoWithTimeProvider creates a new StationRepo with a custom time provider (useful for tests).
func NewStationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *StationRepo {
	return &StationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new station.
func (r *StationRepo) Create(ctx context.Context, req *model.CreateStationRequest) (*model.Station, error) {
	if req == nil {
		return nil, errors.New("create station request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Station
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO stations (id, name, type, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, TRUE, $4, $4)
			RETURNING id, name, type, is_active, created_at, updated_at`,
			uuid.NewString(), strings.TrimSpace(req.Name), req.Type, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Station])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrStationNameExists
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a station by ID.
func (r *StationRepo) GetByID(ctx context.Context, id string) (*model.Station, error) {
	var station model.Station
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, stationGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		station, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Station])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("station %s not found", id)
		}
		return nil, fmt.Errorf("failed to get station by ID: %w", err)
	}
	return &station, nil
}

// List retrieves stations ordered by name, optionally only active ones.
func (r *StationRepo) List(ctx context.Context, activeOnly bool) ([]*model.Station, error) {
	query := stationListAllQuery
	if activeOnly {
		query = stationListActiveQuery
	}

	var rowsOut []model.Station
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Station])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	res := make([]*model.Station, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Deactivate retires a station from the floor. Returns false when the
// station was already inactive, not found errors surface as AppError.
func (r *StationRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE stations SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`,
			id, now)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to deactivate station: %w", err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return true, nil
}
