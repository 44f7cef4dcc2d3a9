package graph

import "fmt"

// Stats summarizes cardinalities over a triple collection.
type Stats struct {
	TotalTriples     int `json:"total_triples"`
	UniqueSubjects   int `json:"unique_subjects"`
	UniquePredicates int `json:"unique_predicates"`
	UniqueObjects    int `json:"unique_objects"`
}

// CollectStats computes cardinality statistics in one pass. Uniqueness
// is positional: the same term counted as a subject and as an object
// contributes to both tallies.
func CollectStats(triples []Triple) Stats {
	subjects := make(map[string]struct{})
	predicates := make(map[string]struct{})
	objects := make(map[string]struct{})

	for _, t := range triples {
		subjects[t.Subject] = struct{}{}
		predicates[t.Predicate] = struct{}{}
		objects[t.Object] = struct{}{}
	}

	return Stats{
		TotalTriples:     len(triples),
		UniqueSubjects:   len(subjects),
		UniquePredicates: len(predicates),
		UniqueObjects:    len(objects),
	}
}

// String renders the stats as a multi-line human-readable report.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Knowledge Graph Statistics:\n"+
			"Total Triples: %d\n"+
			"Unique Subjects: %d\n"+
			"Unique Predicates: %d\n"+
			"Unique Objects: %d",
		s.TotalTriples,
		s.UniqueSubjects,
		s.UniquePredicates,
		s.UniqueObjects,
	)
}
