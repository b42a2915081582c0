package domain

// Decision is a credibility decision row.
type Decision struct {
	Node
	Title       string
	Description string
}

func (*Decision) Kind() NodeKind { return KindDecision }

// Uncertainty is an uncertainty row, grouped under parent uncertainties.
type Uncertainty struct {
	Node
	Name        string
	Description string
}

func (*Uncertainty) Kind() NodeKind { return KindUncertainty }

// SystemRequirement is a system requirement row.
type SystemRequirement struct {
	Node
	Statement   string
	Description string
}

func (*SystemRequirement) Kind() NodeKind { return KindSystemRequirement }
