package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTriples() []Triple {
	return []Triple{
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasName", "Alice"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasRole", "CEO"),
		NewTriple("http://example.org/resource/acme", "http://example.org/ontology#hasName", "Acme"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#worksFor", "http://example.org/resource/acme"),
	}
}

func TestHeuristicEngine_RejectsNonSelect(t *testing.T) {
	engine := NewHeuristicEngine()

	for _, query := range []string{
		"ASK { ?s ?p ?o }",
		"CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }",
		"",
		"DELETE WHERE { ?s ?p ?o }",
	} {
		_, err := engine.Evaluate(query, sampleTriples())
		var unsupported *UnsupportedQueryError
		require.ErrorAs(t, err, &unsupported, "query %q", query)
	}
}

func TestHeuristicEngine_SelectCaseInsensitive(t *testing.T) {
	engine := NewHeuristicEngine()

	for _, query := range []string{
		"SELECT ?s WHERE { ?s ?p ?o }",
		"select ?s where { ?s ?p ?o }",
		"  Select ?s where { ?s ?p ?o }",
	} {
		_, err := engine.Evaluate(query, sampleTriples())
		assert.NoError(t, err, "query %q", query)
	}
}

func TestHeuristicEngine_NameShape(t *testing.T) {
	engine := NewHeuristicEngine()

	result, err := engine.Evaluate("SELECT ?name WHERE { ?entity ex:hasName ?name }", sampleTriples())
	require.NoError(t, err)

	assert.Equal(t, KindSolutions, result.Kind)
	require.Len(t, result.Solutions, 2)
	assert.Equal(t, map[string]string{
		"name":   "Alice",
		"entity": "http://example.org/resource/alice",
	}, result.Solutions[0])
	assert.Equal(t, map[string]string{
		"name":   "Acme",
		"entity": "http://example.org/resource/acme",
	}, result.Solutions[1])
}

func TestHeuristicEngine_RoleShape(t *testing.T) {
	engine := NewHeuristicEngine()

	result, err := engine.Evaluate("SELECT ?role WHERE { ?person ex:hasRole ?role }", sampleTriples())
	require.NoError(t, err)

	require.Len(t, result.Solutions, 1)
	assert.Equal(t, map[string]string{
		"role":   "CEO",
		"person": "http://example.org/resource/alice",
	}, result.Solutions[0])
}

func TestHeuristicEngine_GenericDump(t *testing.T) {
	engine := NewHeuristicEngine()

	result, err := engine.Evaluate("SELECT ?s ?p ?o WHERE { ?s ?p ?o }", sampleTriples())
	require.NoError(t, err)

	require.Len(t, result.Solutions, len(sampleTriples()))
	for _, row := range result.Solutions {
		assert.Contains(t, row, "subject")
		assert.Contains(t, row, "predicate")
		assert.Contains(t, row, "object")
	}
}

func TestHeuristicEngine_NameShapeNeedsBothMarkers(t *testing.T) {
	engine := NewHeuristicEngine()

	// ?name without hasName falls through to the generic dump.
	result, err := engine.Evaluate("SELECT ?name WHERE { ?entity ex:title ?name }", sampleTriples())
	require.NoError(t, err)

	require.Len(t, result.Solutions, len(sampleTriples()))
	assert.Contains(t, result.Solutions[0], "subject")
}

func TestHeuristicEngine_EmptyGraph(t *testing.T) {
	engine := NewHeuristicEngine()

	result, err := engine.Evaluate("SELECT ?name WHERE { ?entity ex:hasName ?name }", nil)
	require.NoError(t, err)
	assert.Equal(t, KindSolutions, result.Kind)
	assert.Empty(t, result.Solutions)
}
