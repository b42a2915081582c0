package domain

type NodeKind string

const (
	KindDecision          NodeKind = "decision"
	KindUncertainty       NodeKind = "uncertainty"
	KindSystemRequirement NodeKind = "requirement"
)

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"decision": true, "uncertainty": true, "requirement": true,
}
