package repository

import (
	"context"
	"database/sql"

	"github.com/safarnama/tourism-booking/internal/model"
)

// DestinationRepo provides CRUD operations for destinations. Names are
// unique regardless of case; lookups normalize with LOWER() so that
// "hunza" and "Hunza" address the same row.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

const destinationColumns = `id, name, description, price, image, created_at, updated_at`

// List returns all destinations ordered by id.
func (r *DestinationRepo) List(ctx context.Context) ([]model.Destination, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Destination, 0)
	for rows.Next() {
		var d model.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.Image, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName fetches a destination by name, case-insensitively. Returns
// ErrNotFound when no such destination exists.
func (r *DestinationRepo) GetByName(ctx context.Context, name string) (*model.Destination, error) {
	var d model.Destination
	err := r.db.QueryRowContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE LOWER(name) = LOWER(?) LIMIT 1`,
		name).Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.Image, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID fetches a destination by id or returns ErrNotFound.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	var d model.Destination
	err := r.db.QueryRowContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE id = ? LIMIT 1`,
		id).Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.Image, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a destination and populates the generated ID. A name
// collision (unique index, case-insensitive collation) returns ErrConflict.
func (r *DestinationRepo) Create(ctx context.Context, d *model.Destination) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO destinations (name, description, price, image) VALUES (?, ?, ?, ?)`,
		d.Name, d.Description, d.Price, d.Image)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// Update overwrites the mutable fields of an existing destination. Renaming
// onto an existing name returns ErrConflict; a missing row ErrNotFound.
func (r *DestinationRepo) Update(ctx context.Context, d *model.Destination) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE destinations SET name = ?, description = ?, price = ?, image = ? WHERE id = ?`,
		d.Name, d.Description, d.Price, d.Image, d.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero rows for a no-op update as well; confirm the
		// row exists before claiming not found.
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a destination or returns ErrNotFound.
func (r *DestinationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
