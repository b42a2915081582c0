package importer

import (
	"fmt"
	"strings"
)

// maxDepth bounds nesting so a malformed file cannot recurse without limit.
const maxDepth = 32

// ValidateOutlineSchema checks the schema before conversion and returns
// every problem found.
func ValidateOutlineSchema(schema *OutlineSchema) []error {
	var errs []error

	if strings.TrimSpace(schema.Model.Name) == "" {
		errs = append(errs, fmt.Errorf("model.name is required"))
	}
	if len(schema.Decisions)+len(schema.Uncertainties)+len(schema.Requirements) == 0 {
		errs = append(errs, fmt.Errorf("at least one of decisions, uncertainties or requirements is required"))
	}

	errs = append(errs, validateNodes("decisions", schema.Decisions, 0)...)
	errs = append(errs, validateNodes("uncertainties", schema.Uncertainties, 0)...)
	errs = append(errs, validateNodes("requirements", schema.Requirements, 0)...)
	return errs
}

func validateNodes(prefix string, nodes []OutlineNode, depth int) []error {
	if depth >= maxDepth && len(nodes) > 0 {
		return []error{fmt.Errorf("%s: nesting deeper than %d levels", prefix, maxDepth)}
	}
	var errs []error
	for i, n := range nodes {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		if strings.TrimSpace(n.Text) == "" {
			errs = append(errs, fmt.Errorf("%s.text is required", path))
		}
		errs = append(errs, validateNodes(path+".children", n.Children, depth+1)...)
	}
	return errs
}
