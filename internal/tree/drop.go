package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/outline"
	"github.com/alexanderramin/credo/internal/repository"
	"go.uber.org/zap"
)

// ErrInvalidDrop is returned for gestures that cannot be applied.
var ErrInvalidDrop = errors.New("invalid drop")

// Location is where a dragged node lands relative to the drop target.
type Location int

const (
	LocationNone Location = iota
	LocationBefore
	LocationAfter
	LocationOn
)

func (l Location) String() string {
	switch l {
	case LocationBefore:
		return "before"
	case LocationAfter:
		return "after"
	case LocationOn:
		return "on"
	default:
		return "none"
	}
}

// ParseLocation reads "before", "after" or "on".
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before":
		return LocationBefore, nil
	case "after":
		return LocationAfter, nil
	case "on":
		return LocationOn, nil
	}
	return LocationNone, fmt.Errorf("unknown drop location %q: %w", s, ErrInvalidDrop)
}

// DropGesture is one drag-and-drop action: the dragged nodes in selection
// order, the node they were dropped on and where relative to it.
type DropGesture struct {
	Selection []any
	Target    any
	Location  Location
}

// DropResolver turns drop gestures into reparent and reorder operations.
type DropResolver[N domain.TreeNode] struct {
	engine *Engine[N]
	repo   repository.TreeNodeRepo[N]
	logger *zap.Logger
}

func NewDropResolver[N domain.TreeNode](engine *Engine[N]) *DropResolver[N] {
	return &DropResolver[N]{engine: engine, repo: engine.repo, logger: engine.logger}
}

// ValidateDrop accepts a gesture only when the target and every selected
// element are nodes of this resolver's kind and a location is set.
func (r *DropResolver[N]) ValidateDrop(g DropGesture) bool {
	if g.Location == LocationNone || len(g.Selection) == 0 {
		return false
	}
	if _, ok := asNode[N](g.Target); !ok {
		return false
	}
	for _, el := range g.Selection {
		if _, ok := asNode[N](el); !ok {
			return false
		}
	}
	return true
}

// PerformDrop applies g one dragged element at a time. An element that fails
// is logged and skipped; the rest of the batch still runs. It reports whether
// the last element was moved, along with every per-element error joined.
//
// For LocationAfter each moved element becomes the target of the next, so a
// multi-selection lands as one block in selection order.
func (r *DropResolver[N]) PerformDrop(ctx context.Context, model *domain.Model, user *domain.User, g DropGesture) (bool, error) {
	if !r.ValidateDrop(g) {
		return false, fmt.Errorf("dropping %d element(s) %s target: %w", len(g.Selection), g.Location, ErrInvalidDrop)
	}
	if user == nil {
		return false, fmt.Errorf("dropping %s: user: %w", r.engine.kind, domain.ErrInvalidArgument)
	}

	target, _ := asNode[N](g.Target)
	moved := false
	var errs []error
	for _, el := range g.Selection {
		d, _ := asNode[N](el)
		ok, err := r.moveOne(ctx, model, user, d, target, g.Location)
		moved = ok
		if err != nil {
			errs = append(errs, err)
		}
		outcome := "moved"
		switch {
		case !ok:
			outcome = "skipped"
		case err != nil:
			outcome = "partial"
		}
		r.engine.metrics.drop(r.engine.kind, g.Location, outcome)
		if ok && g.Location == LocationAfter {
			target = d
		}
	}
	return moved, errors.Join(errs...)
}

// moveOne reparents d when the drop changes its parent, places it next to
// target unless it was dropped on it, and renumbers the whole model after a
// parent change. It reports false when d was not moved at all.
func (r *DropResolver[N]) moveOne(ctx context.Context, model *domain.Model, user *domain.User, d, target N, loc Location) (bool, error) {
	db, tb := d.Base(), target.Base()
	if db.ID == tb.ID {
		return false, nil
	}
	// Earlier elements of the batch may have renumbered both nodes.
	for _, n := range []N{d, target} {
		if err := r.repo.Refresh(ctx, n); err != nil {
			return false, fmt.Errorf("loading %s %s: %w", r.engine.kind, n.Base().ID, err)
		}
	}

	var newParentID *string
	if loc == LocationOn {
		newParentID = domain.StrPtr(tb.ID)
	} else if tb.ParentID != nil {
		newParentID = domain.StrPtr(*tb.ParentID)
	}
	prevParentID := db.ParentID
	changed := !domain.SameID(newParentID, prevParentID)

	log := r.logger.With(
		zap.String("kind", r.engine.kind),
		zap.String("node", db.ID),
		zap.String("target", tb.ID),
		zap.Stringer("location", loc))

	if changed {
		if err := r.checkAcyclic(ctx, db.ID, newParentID); err != nil {
			log.Warn("drop rejected", zap.Error(err))
			return false, err
		}
		prevLabel := db.GeneratedID
		db.ParentID = newParentID
		db.ClearLabel()
		db.Stamp(user.ID, r.engine.now())
		if err := r.repo.Update(ctx, d); err != nil {
			db.ParentID, db.GeneratedID = prevParentID, prevLabel
			log.Error("moving node to new parent failed", zap.Error(err))
			return false, fmt.Errorf("moving %s %s: %w", r.engine.kind, db.ID, err)
		}
		log.Debug("node reparented")
	}

	var errs []error
	if loc != LocationOn {
		idx, err := r.InsertionIndex(d, target, loc)
		if err == nil {
			err = r.engine.Reorder(ctx, d, idx, user)
		}
		if err != nil {
			log.Error("reordering dropped node failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("placing %s %s %s %s: %w", r.engine.kind, db.ID, loc, tb.ID, err))
		}
	}

	if newParentID == nil || prevParentID == nil || changed {
		if err := r.engine.ReorderAll(ctx, model, user); err != nil {
			log.Error("renumbering model after drop failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	// Bring the caller's instances up to date with the renumbered store.
	for _, n := range []N{d, target} {
		if err := r.repo.Refresh(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("refreshing %s %s: %w", r.engine.kind, n.Base().ID, err))
		}
	}
	return true, errors.Join(errs...)
}

// InsertionIndex is the sibling index d should move to when dropped at loc
// relative to target. The offset accounts for d being removed from the group
// before it is reinserted.
func (r *DropResolver[N]) InsertionIndex(d, target N, loc Location) (int, error) {
	tl := target.Base().GeneratedID
	if tl == nil {
		return 0, fmt.Errorf("target %s has no generated id: %w", target.Base().ID, outline.ErrMalformedID)
	}
	pos, err := outline.PositionInSet(*tl)
	if err != nil {
		return 0, err
	}
	c := r.engine.compare(d.Base().GeneratedID, tl)
	switch loc {
	case LocationBefore:
		if c <= 0 {
			pos--
		}
	case LocationAfter:
		if c > 0 {
			pos++
		}
	default:
		return 0, fmt.Errorf("insertion index for location %s: %w", loc, ErrInvalidDrop)
	}
	return pos, nil
}

// checkAcyclic rejects moving nodeID under itself or one of its descendants.
func (r *DropResolver[N]) checkAcyclic(ctx context.Context, nodeID string, parentID *string) error {
	seen := map[string]bool{}
	for id := parentID; id != nil; {
		if *id == nodeID {
			return fmt.Errorf("%s %s cannot become its own descendant: %w", r.engine.kind, nodeID, ErrInvalidDrop)
		}
		if seen[*id] {
			return nil
		}
		seen[*id] = true
		ancestor, err := r.repo.GetByID(ctx, *id)
		if err != nil {
			return fmt.Errorf("walking ancestors of %s: %w", nodeID, err)
		}
		id = ancestor.Base().ParentID
	}
	return nil
}

func asNode[N domain.TreeNode](v any) (N, bool) {
	n, ok := v.(N)
	var zero N
	return n, ok && n != zero
}
