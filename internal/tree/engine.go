// Package tree keeps the generated IDs of an outline-numbered hierarchy
// consistent as nodes are added, removed, moved and dragged between parents.
package tree

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/outline"
	"github.com/alexanderramin/credo/internal/repository"
	"go.uber.org/zap"
)

type options struct {
	compare func(a, b *string) int
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*options)

// WithComparator replaces outline.Compare as the sibling ordering.
func WithComparator(cmp func(a, b *string) int) Option {
	return func(o *options) { o.compare = cmp }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Engine renumbers sibling groups of one node kind. Every pass loads the
// group through the repository, sorts it by generated ID and writes one
// update per node. Passes are not transactional: a failed write leaves the
// nodes before it relabelled and returns the error.
type Engine[N domain.TreeNode] struct {
	repo    repository.TreeNodeRepo[N]
	compare func(a, b *string) int
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
	kind    string
}

func NewEngine[N domain.TreeNode](repo repository.TreeNodeRepo[N], opts ...Option) *Engine[N] {
	o := options{
		compare: outline.Compare,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	var zero N
	return &Engine[N]{
		repo:    repo,
		compare: o.compare,
		logger:  o.logger,
		metrics: o.metrics,
		now:     o.now,
		kind:    string(zero.Kind()),
	}
}

// ReorderAll relabels the roots of model "A", "B", ... in their current
// order and cascades into each root's children. A nil model is a no-op.
func (e *Engine[N]) ReorderAll(ctx context.Context, model *domain.Model, user *domain.User) error {
	if model == nil || model.ID == "" {
		return nil
	}
	if user == nil {
		return fmt.Errorf("reordering %s roots: user: %w", e.kind, domain.ErrInvalidArgument)
	}

	roots, err := e.siblings(ctx, model.ID, nil)
	if err != nil {
		return err
	}
	e.metrics.pass(e.kind, "all")

	for i, root := range roots {
		if label := outline.Encode(i); root.Base().Label() != label {
			if err := e.relabel(ctx, root, label, user); err != nil {
				return err
			}
		}
		if err := e.cascade(ctx, root, user); err != nil {
			return err
		}
	}
	return nil
}

// ReorderAtSameLevel relabels node's sibling group in its current order.
// A nil node or one without a model is a no-op.
func (e *Engine[N]) ReorderAtSameLevel(ctx context.Context, node N, user *domain.User) error {
	if e.absent(node) {
		return nil
	}
	if user == nil {
		return fmt.Errorf("reordering %s siblings: user: %w", e.kind, domain.ErrInvalidArgument)
	}

	b := node.Base()
	group, err := e.siblings(ctx, b.ModelID, b.ParentID)
	if err != nil {
		return err
	}
	group, _ = splice(group, node)
	e.metrics.pass(e.kind, "same_level")
	return e.applyReorder(ctx, group, node, user)
}

// Reorder moves node to newIndex within its sibling group and relabels the
// group. newIndex is clamped to the group's bounds.
func (e *Engine[N]) Reorder(ctx context.Context, node N, newIndex int, user *domain.User) error {
	if e.absent(node) {
		return nil
	}
	if user == nil {
		return fmt.Errorf("moving %s: user: %w", e.kind, domain.ErrInvalidArgument)
	}

	b := node.Base()
	group, err := e.siblings(ctx, b.ModelID, b.ParentID)
	if err != nil {
		return err
	}
	group, from := splice(group, node)

	newIndex = max(newIndex, outline.StartPosition())
	if last := len(group) - 1; newIndex > last && last >= 0 {
		newIndex = last
	}
	group = outline.Move(group, from, newIndex)

	e.logger.Debug("moving node",
		zap.String("kind", e.kind),
		zap.String("node", b.ID),
		zap.Int("from", from),
		zap.Int("to", newIndex))
	e.metrics.pass(e.kind, "move")
	return e.applyReorder(ctx, group, node, user)
}

// applyReorder labels ordered by index. The prefix and the letter or number
// scheme come from moved: roots always take letters, deeper groups append to
// the parent's label, letters at even levels and counting numbers at odd ones.
func (e *Engine[N]) applyReorder(ctx context.Context, ordered []N, moved N, user *domain.User) error {
	mb := moved.Base()
	prefix := ""
	if !mb.IsRoot() {
		parent, err := e.repo.GetByID(ctx, *mb.ParentID)
		if err != nil {
			return fmt.Errorf("loading parent of %s %s: %w", e.kind, mb.ID, err)
		}
		prefix = parent.Base().Label()
	}

	for i, n := range ordered {
		label := outline.SiblingLabel(prefix, mb.IsRoot(), mb.Level, i)
		if err := e.relabel(ctx, n, label, user); err != nil {
			return err
		}
		if err := e.cascade(ctx, n, user); err != nil {
			return err
		}
	}
	return nil
}

// cascade renumbers the children of n by reordering its first child's group.
// Because that pass cascades again for every child with children, the whole
// subtree below n ends up relabelled.
func (e *Engine[N]) cascade(ctx context.Context, n N, user *domain.User) error {
	b := n.Base()
	children, err := e.siblings(ctx, b.ModelID, &b.ID)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	return e.ReorderAtSameLevel(ctx, children[0], user)
}

func (e *Engine[N]) relabel(ctx context.Context, n N, label string, user *domain.User) error {
	b := n.Base()
	b.SetLabel(label)
	b.Stamp(user.ID, e.now())
	if err := e.repo.Update(ctx, n); err != nil {
		e.metrics.persistFailed(e.kind)
		return fmt.Errorf("labelling %s %s as %q: %w", e.kind, b.ID, label, err)
	}
	e.metrics.labelAssigned(e.kind)
	return nil
}

// siblings loads one sibling group sorted by generated ID. Unlabelled nodes
// keep their store order at the end.
func (e *Engine[N]) siblings(ctx context.Context, modelID string, parentID *string) ([]N, error) {
	group, err := e.repo.FindByParentAndModel(ctx, modelID, parentID)
	if err != nil {
		return nil, fmt.Errorf("loading %s siblings: %w", e.kind, err)
	}
	slices.SortStableFunc(group, func(a, b N) int {
		return e.compare(a.Base().GeneratedID, b.Base().GeneratedID)
	})
	return group, nil
}

func (e *Engine[N]) absent(node N) bool {
	var zero N
	return node == zero || node.Base().ModelID == ""
}

// splice replaces the stored copy of node in group with node itself, so the
// caller's instance sees its new label. It returns node's index, or -1.
func splice[N domain.TreeNode](group []N, node N) ([]N, int) {
	id := node.Base().ID
	for i, n := range group {
		if n.Base().ID == id {
			group[i] = node
			return group, i
		}
	}
	return group, -1
}
