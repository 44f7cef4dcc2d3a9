package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectStats_Empty(t *testing.T) {
	stats := CollectStats(nil)
	assert.Equal(t, Stats{}, stats)
}

func TestStats_String(t *testing.T) {
	stats := Stats{
		TotalTriples:     3,
		UniqueSubjects:   2,
		UniquePredicates: 2,
		UniqueObjects:    3,
	}

	want := "Knowledge Graph Statistics:\n" +
		"Total Triples: 3\n" +
		"Unique Subjects: 2\n" +
		"Unique Predicates: 2\n" +
		"Unique Objects: 3"
	assert.Equal(t, want, stats.String())
}
