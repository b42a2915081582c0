package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/credo/internal/db"
	"github.com/alexanderramin/credo/internal/domain"
)

// nodeTable describes how one node kind maps onto its table.
type nodeTable[N domain.TreeNode] struct {
	name       string
	textColumn string
	singular   string
	newNode    func() N
	// fields exposes the storage targets of n: the shared node, the
	// kind-specific text and the description.
	fields func(n N) (*domain.Node, *string, *string)
}

func (t nodeTable[N]) columns() string {
	return `id, model_id, parent_id, generated_id, level, ` + t.textColumn + `,
		description, created_by, updated_by, created_at, updated_at`
}

// SQLiteTreeNodeRepo implements TreeNodeRepo for one node kind.
type SQLiteTreeNodeRepo[N domain.TreeNode] struct {
	db    db.DBTX
	table nodeTable[N]
}

var (
	_ DecisionRepo    = (*SQLiteTreeNodeRepo[*domain.Decision])(nil)
	_ UncertaintyRepo = (*SQLiteTreeNodeRepo[*domain.Uncertainty])(nil)
	_ RequirementRepo = (*SQLiteTreeNodeRepo[*domain.SystemRequirement])(nil)
)

func NewSQLiteDecisionRepo(db db.DBTX) *SQLiteTreeNodeRepo[*domain.Decision] {
	return &SQLiteTreeNodeRepo[*domain.Decision]{db: db, table: nodeTable[*domain.Decision]{
		name:       "decisions",
		textColumn: "title",
		singular:   "decision",
		newNode:    func() *domain.Decision { return &domain.Decision{} },
		fields: func(d *domain.Decision) (*domain.Node, *string, *string) {
			return &d.Node, &d.Title, &d.Description
		},
	}}
}

func NewSQLiteUncertaintyRepo(db db.DBTX) *SQLiteTreeNodeRepo[*domain.Uncertainty] {
	return &SQLiteTreeNodeRepo[*domain.Uncertainty]{db: db, table: nodeTable[*domain.Uncertainty]{
		name:       "uncertainties",
		textColumn: "name",
		singular:   "uncertainty",
		newNode:    func() *domain.Uncertainty { return &domain.Uncertainty{} },
		fields: func(u *domain.Uncertainty) (*domain.Node, *string, *string) {
			return &u.Node, &u.Name, &u.Description
		},
	}}
}

func NewSQLiteRequirementRepo(db db.DBTX) *SQLiteTreeNodeRepo[*domain.SystemRequirement] {
	return &SQLiteTreeNodeRepo[*domain.SystemRequirement]{db: db, table: nodeTable[*domain.SystemRequirement]{
		name:       "system_requirements",
		textColumn: "statement",
		singular:   "system requirement",
		newNode:    func() *domain.SystemRequirement { return &domain.SystemRequirement{} },
		fields: func(r *domain.SystemRequirement) (*domain.Node, *string, *string) {
			return &r.Node, &r.Statement, &r.Description
		},
	}}
}

func (r *SQLiteTreeNodeRepo[N]) Create(ctx context.Context, n N) error {
	base, text, desc := r.table.fields(n)
	query := `INSERT INTO ` + r.table.name + ` (` + r.table.columns() + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		base.ID,
		base.ModelID,
		nullableString(base.ParentID),
		nullableString(base.GeneratedID),
		base.Level,
		*text,
		*desc,
		base.CreatedBy,
		base.UpdatedBy,
		formatTime(base.CreatedAt),
		formatTime(base.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w: %w", r.table.singular, ErrPersistence, err)
	}
	return nil
}

func (r *SQLiteTreeNodeRepo[N]) GetByID(ctx context.Context, id string) (N, error) {
	n := r.table.newNode()
	query := `SELECT ` + r.table.columns() + ` FROM ` + r.table.name + ` WHERE id = ?`
	if err := r.scan(r.db.QueryRowContext(ctx, query, id), n); err != nil {
		var zero N
		return zero, err
	}
	return n, nil
}

// FindByParentAndModel relies on SQLite's IS operator so a nil parentID
// matches NULL.
func (r *SQLiteTreeNodeRepo[N]) FindByParentAndModel(ctx context.Context, modelID string, parentID *string) ([]N, error) {
	query := `SELECT ` + r.table.columns() + ` FROM ` + r.table.name + `
		WHERE model_id = ? AND parent_id IS ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, modelID, nullableString(parentID))
	if err != nil {
		return nil, fmt.Errorf("listing %s siblings: %w", r.table.singular, err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *SQLiteTreeNodeRepo[N]) ListByModel(ctx context.Context, modelID string) ([]N, error) {
	query := `SELECT ` + r.table.columns() + ` FROM ` + r.table.name + `
		WHERE model_id = ? ORDER BY level, rowid`
	rows, err := r.db.QueryContext(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("listing %s rows by model: %w", r.table.singular, err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update writes every mutable column. Level and the creation audit fields
// are fixed at insert time.
func (r *SQLiteTreeNodeRepo[N]) Update(ctx context.Context, n N) error {
	base, text, desc := r.table.fields(n)
	query := `UPDATE ` + r.table.name + ` SET parent_id = ?, generated_id = ?, ` + r.table.textColumn + ` = ?,
		description = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(base.ParentID),
		nullableString(base.GeneratedID),
		*text,
		*desc,
		base.UpdatedBy,
		formatTime(base.UpdatedAt),
		base.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w: %w", r.table.singular, base.ID, ErrPersistence, err)
	}
	return expectOneRow(res, "updating "+r.table.singular, base.ID)
}

func (r *SQLiteTreeNodeRepo[N]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table.name+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w: %w", r.table.singular, id, ErrPersistence, err)
	}
	return expectOneRow(res, "deleting "+r.table.singular, id)
}

func (r *SQLiteTreeNodeRepo[N]) Refresh(ctx context.Context, n N) error {
	query := `SELECT ` + r.table.columns() + ` FROM ` + r.table.name + ` WHERE id = ?`
	base, _, _ := r.table.fields(n)
	return r.scan(r.db.QueryRowContext(ctx, query, base.ID), n)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scan reads one row into n.
func (r *SQLiteTreeNodeRepo[N]) scan(row rowScanner, n N) error {
	base, text, desc := r.table.fields(n)
	var parentID, generatedID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&base.ID, &base.ModelID, &parentID, &generatedID, &base.Level, text,
		desc, &base.CreatedBy, &base.UpdatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", r.table.singular, ErrNotFound)
		}
		return fmt.Errorf("scanning %s: %w", r.table.singular, err)
	}

	base.ParentID = stringPtr(parentID)
	base.GeneratedID = stringPtr(generatedID)
	if base.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return err
	}
	if base.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteTreeNodeRepo[N]) scanAll(rows *sql.Rows) ([]N, error) {
	var out []N
	for rows.Next() {
		n := r.table.newNode()
		if err := r.scan(rows, n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", r.table.singular, err)
	}
	return out, nil
}
