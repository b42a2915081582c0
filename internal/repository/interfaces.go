package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/credo/internal/domain"
)

var (
	// ErrNotFound is wrapped when a lookup, update or delete matches no row.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is wrapped around backend failures on write.
	ErrPersistence = errors.New("persistence failure")
)

// TreeNodeRepo stores one outline-numbered hierarchy. Sibling queries return
// rows in insertion order; callers sort by generated ID themselves.
type TreeNodeRepo[N domain.TreeNode] interface {
	Create(ctx context.Context, n N) error
	GetByID(ctx context.Context, id string) (N, error)
	// FindByParentAndModel returns the children of parentID within the
	// model, or the roots when parentID is nil.
	FindByParentAndModel(ctx context.Context, modelID string, parentID *string) ([]N, error)
	ListByModel(ctx context.Context, modelID string) ([]N, error)
	Update(ctx context.Context, n N) error
	Delete(ctx context.Context, id string) error
	// Refresh reloads the stored row into n.
	Refresh(ctx context.Context, n N) error
}

type (
	DecisionRepo    = TreeNodeRepo[*domain.Decision]
	UncertaintyRepo = TreeNodeRepo[*domain.Uncertainty]
	RequirementRepo = TreeNodeRepo[*domain.SystemRequirement]
)

type ModelRepo interface {
	Create(ctx context.Context, m *domain.Model) error
	GetByID(ctx context.Context, id string) (*domain.Model, error)
	GetByName(ctx context.Context, name string) (*domain.Model, error)
	List(ctx context.Context) ([]*domain.Model, error)
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
