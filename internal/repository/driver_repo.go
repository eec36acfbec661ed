package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"vieride/internal/db"
)

type DriverRepository struct {
	DB *sql.DB
}

func NewDriverRepository(database *sql.DB) *DriverRepository {
	return &DriverRepository{DB: database}
}

func (r *DriverRepository) List(activeOnly bool) ([]db.Driver, error) {
	query := `SELECT id, name, phone, plate, active, created_at, updated_at FROM drivers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error listing drivers: %w", err)
	}
	defer rows.Close()

	var drivers []db.Driver
	for rows.Next() {
		var d db.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Plate, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *DriverRepository) GetByID(id string) (*db.Driver, error) {
	var d db.Driver
	err := r.DB.QueryRow(
		`SELECT id, name, phone, plate, active, created_at, updated_at FROM drivers WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Phone, &d.Plate, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("driver %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying driver: %w", err)
	}
	return &d, nil
}

func (r *DriverRepository) Create(d *db.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, plate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query, d.ID, d.Name, d.Phone, d.Plate, d.Active).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating driver: %w", err)
	}
	return nil
}

func (r *DriverRepository) Update(d *db.Driver) error {
	result, err := r.DB.Exec(
		`UPDATE drivers SET name = $2, phone = $3, plate = $4, active = $5, updated_at = NOW() WHERE id = $1`,
		d.ID, d.Name, d.Phone, d.Plate, d.Active,
	)
	if err != nil {
		return fmt.Errorf("error updating driver %s: %w", d.ID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("driver %s not found", d.ID)
	}
	return nil
}

func (r *DriverRepository) Delete(id string) error {
	result, err := r.DB.Exec(`DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting driver %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("driver %s not found", id)
	}
	return nil
}
