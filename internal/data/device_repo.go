package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

const deviceColumns = `id, brand, device_type, model, model_number, sla_hours, test_config, created_at, updated_at`

// DeviceRepo provides database operations for the device catalog.
type DeviceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDeviceRepo creates a new DeviceRepo with real time provider.
func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDeviceRepoWithTimeProvider creates a new DeviceRepo with a custom time provider (useful for tests).
func NewDeviceRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DeviceRepo {
	return &DeviceRepo{DB: db, timeProvider: tp}
}

// Create inserts a new catalog entry.
func (r *DeviceRepo) Create(ctx context.Context, req *model.CreateDeviceRequest) (*model.Device, error) {
	if req == nil {
		return nil, errors.New("create device request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Device
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO devices (id, brand, device_type, model, model_number, sla_hours, test_config, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+deviceColumns,
			uuid.NewString(),
			strings.TrimSpace(req.Brand),
			strings.TrimSpace(req.DeviceType),
			strings.TrimSpace(req.Model),
			req.ModelNumber,
			req.SLAHours,
			req.TestConfig,
			now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Device])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a catalog entry by ID.
func (r *DeviceRepo) GetByID(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		device, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Device])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("device %s not found", id)
		}
		return nil, fmt.Errorf("failed to get device by ID: %w", err)
	}
	return &device, nil
}

// List retrieves catalog entries with pagination.
func (r *DeviceRepo) List(ctx context.Context, limit, offset int) ([]*model.Device, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Device
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+deviceColumns+` FROM devices
			ORDER BY brand ASC, model ASC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Device])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	res := make([]*model.Device, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
