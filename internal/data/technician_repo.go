package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

// TechnicianRepo provides lookups against the technician roster.
type TechnicianRepo struct {
	DB *sql.DB
}

// NewTechnicianRepo creates a new TechnicianRepo.
func NewTechnicianRepo(db *sql.DB) *TechnicianRepo {
	return &TechnicianRepo{DB: db}
}

// GetByID retrieves a technician by ID.
func (r *TechnicianRepo) GetByID(ctx context.Context, id string) (*model.Technician, error) {
	var tech model.Technician
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, email, is_active, created_at
			FROM technicians
			WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		tech, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Technician])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("technician %s not found", id)
		}
		return nil, fmt.Errorf("failed to get technician by ID: %w", err)
	}
	return &tech, nil
}

// List retrieves active technicians ordered by name.
func (r *TechnicianRepo) List(ctx context.Context) ([]*model.Technician, error) {
	var rowsOut []model.Technician
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, email, is_active, created_at
			FROM technicians
			WHERE is_active
			ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Technician])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	res := make([]*model.Technician, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
