package domain

import (
	"errors"
	"time"
)

// ErrInvalidArgument reports a required argument that was nil or empty at a
// call boundary that validates it.
var ErrInvalidArgument = errors.New("invalid argument")

// Node holds the fields shared by every outline-numbered entity. Concrete
// kinds embed it and satisfy TreeNode through the promoted Base method.
type Node struct {
	ID          string
	ModelID     string
	ParentID    *string
	GeneratedID *string // outline label; nil until the first reorder pass
	Level       int     // depth, 0 at root; fixed at creation
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Base exposes the shared node fields.
func (n *Node) Base() *Node { return n }

// Label returns the generated ID or "" when none is assigned yet.
func (n *Node) Label() string {
	if n.GeneratedID == nil {
		return ""
	}
	return *n.GeneratedID
}

// SetLabel assigns the generated ID.
func (n *Node) SetLabel(label string) {
	n.GeneratedID = &label
}

// ClearLabel drops the generated ID until the next reorder pass.
func (n *Node) ClearLabel() {
	n.GeneratedID = nil
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.ParentID == nil }

// SameParent reports whether both nodes hang off the same parent.
func (n *Node) SameParent(parentID *string) bool {
	return SameID(n.ParentID, parentID)
}

// Stamp records the user and time of the latest modification.
func (n *Node) Stamp(userID string, at time.Time) {
	n.UpdatedBy = userID
	n.UpdatedAt = at
}

// TreeNode is the capability set the reorder engine needs from a node kind.
// Implementations are pointer types so nil can be detected by comparison.
type TreeNode interface {
	comparable
	Base() *Node
	Kind() NodeKind
}

// SameID compares two optional identifiers.
func SameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// StrPtr returns a pointer to a copy of s.
func StrPtr(s string) *string { return &s }
