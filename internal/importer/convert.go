package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/google/uuid"
)

// Outline holds the domain objects built from a schema. Every node slice
// lists parents before their children, in file order, with no labels yet.
type Outline struct {
	Model         *domain.Model
	Decisions     []*domain.Decision
	Uncertainties []*domain.Uncertainty
	Requirements  []*domain.SystemRequirement
}

// NodeCount is the number of nodes across all kinds.
func (o *Outline) NodeCount() int {
	return len(o.Decisions) + len(o.Uncertainties) + len(o.Requirements)
}

// Convert transforms a validated schema into domain objects attributed to
// userID. Call ValidateOutlineSchema first.
func Convert(schema *OutlineSchema, userID string, now time.Time) *Outline {
	model := &domain.Model{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(schema.Model.Name),
		Description: schema.Model.Description,
		CreatedAt:   now,
	}
	base := func(parent *domain.Node) domain.Node {
		n := domain.Node{
			ID:        uuid.New().String(),
			ModelID:   model.ID,
			CreatedBy: userID,
			UpdatedBy: userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if parent != nil {
			n.ParentID = domain.StrPtr(parent.ID)
			n.Level = parent.Level + 1
		}
		return n
	}

	return &Outline{
		Model: model,
		Decisions: flatten(schema.Decisions, nil, func(p *domain.Node, on OutlineNode) *domain.Decision {
			return &domain.Decision{Node: base(p), Title: strings.TrimSpace(on.Text), Description: on.Description}
		}),
		Uncertainties: flatten(schema.Uncertainties, nil, func(p *domain.Node, on OutlineNode) *domain.Uncertainty {
			return &domain.Uncertainty{Node: base(p), Name: strings.TrimSpace(on.Text), Description: on.Description}
		}),
		Requirements: flatten(schema.Requirements, nil, func(p *domain.Node, on OutlineNode) *domain.SystemRequirement {
			return &domain.SystemRequirement{Node: base(p), Statement: strings.TrimSpace(on.Text), Description: on.Description}
		}),
	}
}

// flatten walks nodes depth-first. Each group of siblings is emitted before
// their subtrees, so parents always precede children.
func flatten[N domain.TreeNode](nodes []OutlineNode, parent *domain.Node, build func(*domain.Node, OutlineNode) N) []N {
	out := make([]N, 0, len(nodes))
	built := make([]N, len(nodes))
	for i, on := range nodes {
		built[i] = build(parent, on)
		out = append(out, built[i])
	}
	for i, on := range nodes {
		out = append(out, flatten(on.Children, built[i].Base(), build)...)
	}
	return out
}
