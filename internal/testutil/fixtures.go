package testutil

import (
	"time"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/google/uuid"
)

func NewTestModel(name string) *domain.Model {
	return &domain.Model{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestUser(name string) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Node options apply to the shared fields of any kind.
type NodeOption func(*domain.Node)

// WithParent hangs the node under p one level deeper.
func WithParent(p interface{ Base() *domain.Node }) NodeOption {
	return func(n *domain.Node) {
		parent := p.Base()
		id := parent.ID
		n.ParentID = &id
		n.Level = parent.Level + 1
	}
}

func WithLabel(label string) NodeOption {
	return func(n *domain.Node) {
		n.SetLabel(label)
	}
}

func WithLevel(level int) NodeOption {
	return func(n *domain.Node) {
		n.Level = level
	}
}

func WithAuthor(userID string) NodeOption {
	return func(n *domain.Node) {
		n.CreatedBy = userID
		n.UpdatedBy = userID
	}
}

func newTestNode(modelID string, opts []NodeOption) domain.Node {
	now := time.Now().UTC()
	n := domain.Node{
		ID:        uuid.New().String(),
		ModelID:   modelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func NewTestDecision(modelID, title string, opts ...NodeOption) *domain.Decision {
	return &domain.Decision{Node: newTestNode(modelID, opts), Title: title}
}

func NewTestUncertainty(modelID, name string, opts ...NodeOption) *domain.Uncertainty {
	return &domain.Uncertainty{Node: newTestNode(modelID, opts), Name: name}
}

func NewTestRequirement(modelID, statement string, opts ...NodeOption) *domain.SystemRequirement {
	return &domain.SystemRequirement{Node: newTestNode(modelID, opts), Statement: statement}
}
