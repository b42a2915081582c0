package service

import (
	"context"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/importer"
	"github.com/alexanderramin/credo/internal/tree"
)

// TreeService manages one outline-numbered hierarchy. Every structural
// change renumbers the affected sibling groups before returning.
type TreeService[N domain.TreeNode] interface {
	Create(ctx context.Context, n N, user *domain.User) error
	GetByID(ctx context.Context, id string) (N, error)
	Roots(ctx context.Context, modelID string) ([]N, error)
	Children(ctx context.Context, parent N) ([]N, error)
	ListByModel(ctx context.Context, modelID string) ([]N, error)
	Update(ctx context.Context, n N, user *domain.User) error
	Delete(ctx context.Context, n N, user *domain.User) error
	Refresh(ctx context.Context, n N) error
	// Resolve finds a node of the model by ID or by generated ID.
	Resolve(ctx context.Context, modelID, ref string) (N, error)
	// FullLabel joins the generated IDs from the root down to n.
	FullLabel(ctx context.Context, n N) (string, error)

	ReorderAll(ctx context.Context, model *domain.Model, user *domain.User) error
	ReorderAtSameLevel(ctx context.Context, n N, user *domain.User) error
	Reorder(ctx context.Context, n N, newIndex int, user *domain.User) error

	ValidateDrop(g tree.DropGesture) bool
	Drop(ctx context.Context, model *domain.Model, user *domain.User, g tree.DropGesture) (bool, error)
}

type (
	DecisionService    = TreeService[*domain.Decision]
	UncertaintyService = TreeService[*domain.Uncertainty]
	RequirementService = TreeService[*domain.SystemRequirement]
)

type ModelService interface {
	Create(ctx context.Context, m *domain.Model) error
	GetByID(ctx context.Context, id string) (*domain.Model, error)
	// Resolve looks a model up by ID, then by name.
	Resolve(ctx context.Context, ref string) (*domain.Model, error)
	List(ctx context.Context) ([]*domain.Model, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	Resolve(ctx context.Context, ref string) (*domain.User, error)
	// Ensure returns the user with the given name, creating it if needed.
	Ensure(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// ImportResult holds the outcome of an outline import.
type ImportResult struct {
	Model            *domain.Model
	DecisionCount    int
	UncertaintyCount int
	RequirementCount int
}

type ImportService interface {
	ImportOutline(ctx context.Context, filePath string, user *domain.User) (*ImportResult, error)
	ImportOutlineFromSchema(ctx context.Context, schema *importer.OutlineSchema, user *domain.User) (*ImportResult, error)
}
