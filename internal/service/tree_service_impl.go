package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/outline"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/tree"
	"github.com/google/uuid"
)

type treeService[N domain.TreeNode] struct {
	nodes    repository.TreeNodeRepo[N]
	engine   *tree.Engine[N]
	drops    *tree.DropResolver[N]
	observer UseCaseObserver
	kind     string
}

// NewTreeService builds the service for one node kind around its repository
// and the engine that renumbers it.
func NewTreeService[N domain.TreeNode](
	nodes repository.TreeNodeRepo[N],
	engine *tree.Engine[N],
	observers ...UseCaseObserver,
) TreeService[N] {
	var zero N
	return &treeService[N]{
		nodes:    nodes,
		engine:   engine,
		drops:    tree.NewDropResolver(engine),
		observer: useCaseObserverOrNoop(observers),
		kind:     string(zero.Kind()),
	}
}

// Create stores n without a label under its parent, one level below it, and
// renumbers the sibling group so n takes the next free label.
func (s *treeService[N]) Create(ctx context.Context, n N, user *domain.User) (err error) {
	fields := nodeFields(n)
	defer observe(ctx, s.observer, "create-"+s.kind, fields, time.Now(), &err)()

	var zero N
	if n == zero || user == nil {
		return fmt.Errorf("creating %s: node and user are required: %w", s.kind, domain.ErrInvalidArgument)
	}
	b := n.Base()
	if b.ModelID == "" {
		return fmt.Errorf("creating %s: model is required: %w", s.kind, domain.ErrInvalidArgument)
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	fields["node"] = b.ID

	b.Level = 0
	if b.ParentID != nil {
		parent, err := s.nodes.GetByID(ctx, *b.ParentID)
		if err != nil {
			return fmt.Errorf("creating %s: loading parent: %w", s.kind, err)
		}
		if parent.Base().ModelID != b.ModelID {
			return fmt.Errorf("creating %s: parent belongs to another model: %w", s.kind, domain.ErrInvalidArgument)
		}
		b.Level = parent.Base().Level + 1
	}

	now := time.Now().UTC()
	b.ClearLabel()
	b.CreatedBy = user.ID
	b.CreatedAt = now
	b.Stamp(user.ID, now)

	if err := s.nodes.Create(ctx, n); err != nil {
		return fmt.Errorf("creating %s: %w", s.kind, err)
	}
	if err := s.engine.ReorderAtSameLevel(ctx, n, user); err != nil {
		return fmt.Errorf("numbering new %s: %w", s.kind, err)
	}
	return nil
}

func (s *treeService[N]) GetByID(ctx context.Context, id string) (N, error) {
	return s.nodes.GetByID(ctx, id)
}

// Roots returns the top-level nodes of a model in label order.
func (s *treeService[N]) Roots(ctx context.Context, modelID string) ([]N, error) {
	roots, err := s.nodes.FindByParentAndModel(ctx, modelID, nil)
	if err != nil {
		return nil, err
	}
	return sortByLabel(roots), nil
}

// Children returns the children of parent in label order.
func (s *treeService[N]) Children(ctx context.Context, parent N) ([]N, error) {
	b := parent.Base()
	children, err := s.nodes.FindByParentAndModel(ctx, b.ModelID, &b.ID)
	if err != nil {
		return nil, err
	}
	return sortByLabel(children), nil
}

func (s *treeService[N]) ListByModel(ctx context.Context, modelID string) ([]N, error) {
	return s.nodes.ListByModel(ctx, modelID)
}

// Update persists content changes. Moving a node goes through Reorder or Drop.
func (s *treeService[N]) Update(ctx context.Context, n N, user *domain.User) (err error) {
	defer observe(ctx, s.observer, "update-"+s.kind, nodeFields(n), time.Now(), &err)()

	var zero N
	if n == zero || user == nil {
		return fmt.Errorf("updating %s: node and user are required: %w", s.kind, domain.ErrInvalidArgument)
	}
	n.Base().Stamp(user.ID, time.Now().UTC())
	return s.nodes.Update(ctx, n)
}

// Delete removes n with its subtree, then closes the gap it left: a root
// deletion renumbers the whole model, any other renumbers n's former siblings.
func (s *treeService[N]) Delete(ctx context.Context, n N, user *domain.User) (err error) {
	defer observe(ctx, s.observer, "delete-"+s.kind, nodeFields(n), time.Now(), &err)()

	var zero N
	if n == zero || user == nil {
		return fmt.Errorf("deleting %s: node and user are required: %w", s.kind, domain.ErrInvalidArgument)
	}
	if n.Base().ID == "" {
		return fmt.Errorf("deleting %s: id is required: %w", s.kind, domain.ErrInvalidArgument)
	}
	if err := s.nodes.Refresh(ctx, n); err != nil {
		return fmt.Errorf("deleting %s: %w", s.kind, err)
	}
	if err := s.nodes.Delete(ctx, n.Base().ID); err != nil {
		return fmt.Errorf("deleting %s: %w", s.kind, err)
	}

	if n.Base().IsRoot() {
		return s.engine.ReorderAll(ctx, &domain.Model{ID: n.Base().ModelID}, user)
	}
	return s.engine.ReorderAtSameLevel(ctx, n, user)
}

func (s *treeService[N]) Refresh(ctx context.Context, n N) error {
	return s.nodes.Refresh(ctx, n)
}

func (s *treeService[N]) ReorderAll(ctx context.Context, model *domain.Model, user *domain.User) (err error) {
	fields := map[string]any{"kind": s.kind}
	if model != nil {
		fields["model"] = model.ID
	}
	defer observe(ctx, s.observer, "renumber-"+s.kind, fields, time.Now(), &err)()

	return s.engine.ReorderAll(ctx, model, user)
}

func (s *treeService[N]) ReorderAtSameLevel(ctx context.Context, n N, user *domain.User) error {
	return s.engine.ReorderAtSameLevel(ctx, n, user)
}

func (s *treeService[N]) Reorder(ctx context.Context, n N, newIndex int, user *domain.User) (err error) {
	fields := nodeFields(n)
	fields["index"] = newIndex
	defer observe(ctx, s.observer, "move-"+s.kind, fields, time.Now(), &err)()

	return s.engine.Reorder(ctx, n, newIndex, user)
}

func (s *treeService[N]) ValidateDrop(g tree.DropGesture) bool {
	return s.drops.ValidateDrop(g)
}

func (s *treeService[N]) Drop(ctx context.Context, model *domain.Model, user *domain.User, g tree.DropGesture) (moved bool, err error) {
	fields := map[string]any{
		"kind":     s.kind,
		"location": g.Location.String(),
		"count":    len(g.Selection),
	}
	defer observe(ctx, s.observer, "drop-"+s.kind, fields, time.Now(), &err)()

	return s.drops.PerformDrop(ctx, model, user, g)
}

func sortByLabel[N domain.TreeNode](nodes []N) []N {
	slices.SortStableFunc(nodes, func(a, b N) int {
		return outline.Compare(a.Base().GeneratedID, b.Base().GeneratedID)
	})
	return nodes
}

// FullLabel joins the labels of n's ancestors and n, root first.
func (s *treeService[N]) FullLabel(ctx context.Context, n N) (string, error) {
	var chain []string
	seen := map[string]bool{}
	for cur := n; ; {
		b := cur.Base()
		if seen[b.ID] {
			break
		}
		seen[b.ID] = true
		chain = append(chain, b.Label())
		if b.ParentID == nil {
			break
		}
		parent, err := s.nodes.GetByID(ctx, *b.ParentID)
		if err != nil {
			return "", fmt.Errorf("resolving ancestors of %s %s: %w", s.kind, b.ID, err)
		}
		cur = parent
	}
	slices.Reverse(chain)
	return outline.FullPath(chain, " > "), nil
}

// Resolve finds a node of modelID by ID, or else by generated ID.
func (s *treeService[N]) Resolve(ctx context.Context, modelID, ref string) (N, error) {
	var zero N
	n, err := s.nodes.GetByID(ctx, ref)
	switch {
	case err == nil && n.Base().ModelID == modelID:
		return n, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return zero, err
	}

	all, err := s.nodes.ListByModel(ctx, modelID)
	if err != nil {
		return zero, err
	}
	for _, n := range all {
		if strings.EqualFold(n.Base().Label(), ref) {
			return n, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", s.kind, ref, repository.ErrNotFound)
}
