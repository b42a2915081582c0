package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/credo/internal/db"
	"github.com/alexanderramin/credo/internal/domain"
)

const modelColumns = `id, name, description, created_at`

// SQLiteModelRepo implements ModelRepo using a SQLite database.
type SQLiteModelRepo struct {
	db db.DBTX
}

func NewSQLiteModelRepo(db db.DBTX) *SQLiteModelRepo {
	return &SQLiteModelRepo{db: db}
}

func (r *SQLiteModelRepo) Create(ctx context.Context, m *domain.Model) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO models (`+modelColumns+`) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Description, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting model: %w: %w", ErrPersistence, err)
	}
	return nil
}

func (r *SQLiteModelRepo) GetByID(ctx context.Context, id string) (*domain.Model, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE id = ?`, id)
	return scanModel(row)
}

func (r *SQLiteModelRepo) GetByName(ctx context.Context, name string) (*domain.Model, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE name = ?`, name)
	return scanModel(row)
}

func (r *SQLiteModelRepo) List(ctx context.Context) ([]*domain.Model, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+modelColumns+` FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating models: %w", err)
	}
	return models, nil
}

// Delete removes the model and, through foreign keys, every node scoped to it.
func (r *SQLiteModelRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting model %s: %w: %w", id, ErrPersistence, err)
	}
	return expectOneRow(res, "deleting model", id)
}

func scanModel(row rowScanner) (*domain.Model, error) {
	var m domain.Model
	var createdAt string
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning model: %w", err)
	}
	var err error
	if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}
