package graph

import "strings"

// ResultKind tags the two shapes a query evaluation can produce.
type ResultKind int

const (
	// KindSolutions marks an ordered sequence of variable bindings.
	KindSolutions ResultKind = iota
	// KindBoolean marks an ASK-style true/false result.
	KindBoolean
)

// QueryResult is the tagged result of a query evaluation. Every engine
// implementation must produce this exact shape so downstream consumers
// stay strategy-agnostic.
type QueryResult struct {
	Kind      ResultKind
	Solutions []map[string]string
	Boolean   bool
}

// Engine evaluates a query string against a triple collection. Engines
// are selected at store construction time; swapping in a full SPARQL
// evaluator must not change the QueryResult shape.
type Engine interface {
	Evaluate(query string, triples []Triple) (QueryResult, error)
}

// HeuristicEngine is the baseline query strategy. It is deliberately
// not a SPARQL parser: it recognizes only the fixed query vocabulary
// the report templates generate, by substring containment, and falls
// back to a full dump for everything else.
type HeuristicEngine struct{}

// NewHeuristicEngine returns the baseline engine.
func NewHeuristicEngine() *HeuristicEngine {
	return &HeuristicEngine{}
}

// Evaluate classifies the query into one of three shapes. Queries not
// beginning with SELECT (case-insensitive) are rejected with
// UnsupportedQueryError; an unrecognized SELECT falls through to the
// generic subject/predicate/object dump rather than erroring.
func (e *HeuristicEngine) Evaluate(query string, triples []Triple) (QueryResult, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "select") {
		return QueryResult{}, &UnsupportedQueryError{Query: query}
	}

	var rows []map[string]string

	switch {
	case strings.Contains(query, "?name") && strings.Contains(query, "hasName"):
		for _, t := range triples {
			if strings.Contains(t.Predicate, "hasName") {
				rows = append(rows, map[string]string{
					"name":   t.Object,
					"entity": t.Subject,
				})
			}
		}
	case strings.Contains(query, "?role") && strings.Contains(query, "hasRole"):
		for _, t := range triples {
			if strings.Contains(t.Predicate, "hasRole") {
				rows = append(rows, map[string]string{
					"role":   t.Object,
					"person": t.Subject,
				})
			}
		}
	default:
		for _, t := range triples {
			rows = append(rows, map[string]string{
				"subject":   t.Subject,
				"predicate": t.Predicate,
				"object":    t.Object,
			})
		}
	}

	return QueryResult{Kind: KindSolutions, Solutions: rows}, nil
}
