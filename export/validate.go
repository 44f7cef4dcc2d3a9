package export

import (
	"fmt"

	"github.com/c360studio/kgraph/graph"
)

// ValidateTriples reports structural issues that would make a triple
// collection unfit for export: non-URI subjects or predicates and
// empty terms. One triple can contribute multiple issues. An empty
// result means the collection is clean.
func ValidateTriples(triples []graph.Triple) []string {
	var issues []string

	for i, t := range triples {
		if !graph.IsAbsoluteURI(t.Subject) {
			issues = append(issues, fmt.Sprintf("Triple %d: Invalid subject URI: %s", i, t.Subject))
		}
		if !graph.IsAbsoluteURI(t.Predicate) {
			issues = append(issues, fmt.Sprintf("Triple %d: Invalid predicate URI: %s", i, t.Predicate))
		}
		if t.Subject == "" {
			issues = append(issues, fmt.Sprintf("Triple %d: Empty subject", i))
		}
		if t.Predicate == "" {
			issues = append(issues, fmt.Sprintf("Triple %d: Empty predicate", i))
		}
		if t.Object == "" {
			issues = append(issues, fmt.Sprintf("Triple %d: Empty object", i))
		}
	}

	return issues
}
