package graph

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewBadgerStore(InMemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestBadgerStore_AddTriples_Dedup(t *testing.T) {
	store := newTestBadgerStore(t)

	added, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
		NewTriple("http://example.org/resource/b", "http://example.org/ontology#hasName", "Widget Co"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	assert.Equal(t, 2, store.Len())
}

func TestBadgerStore_Dedup_AcrossBatches(t *testing.T) {
	store := newTestBadgerStore(t)

	first := NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme").
		WithConfidence(0.9).WithSource("doc1.txt")
	second := NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme").
		WithConfidence(0.1).WithSource("doc2.txt")

	_, err := store.AddTriples([]Triple{first})
	require.NoError(t, err)
	added, err := store.AddTriples([]Triple{second})
	require.NoError(t, err)

	assert.Equal(t, 0, added)
	triples := store.Triples()
	require.Len(t, triples, 1)
	assert.Equal(t, float32(0.9), triples[0].Confidence)
	assert.Equal(t, "doc1.txt", triples[0].Source)
}

func TestBadgerStore_InsertionOrder(t *testing.T) {
	store := newTestBadgerStore(t)

	batch := []Triple{
		NewTriple("http://example.org/resource/c", "http://example.org/ontology#hasName", "Third"),
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "First"),
		NewTriple("http://example.org/resource/b", "http://example.org/ontology#hasName", "Second"),
	}
	_, err := store.AddTriples(batch)
	require.NoError(t, err)

	triples := store.Triples()
	require.Len(t, triples, 3)
	for i, want := range batch {
		assert.Equal(t, want.Subject, triples[i].Subject,
			"triples come back in insertion order, not key order")
	}
}

func TestBadgerStore_Query(t *testing.T) {
	store := newTestBadgerStore(t)

	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
	})
	require.NoError(t, err)

	result, err := store.Query("SELECT ?name WHERE { ?entity ex:hasName ?name }")
	require.NoError(t, err)
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, "Acme", result.Solutions[0]["name"])
}

func TestBadgerStore_Stats(t *testing.T) {
	store := newTestBadgerStore(t)

	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasRole", "CEO"),
	})
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, 2, stats.TotalTriples)
	assert.Equal(t, 1, stats.UniqueSubjects)
}

func TestBadgerStore_ExportToFile(t *testing.T) {
	store := newTestBadgerStore(t)

	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
	})
	require.NoError(t, err)

	ntPath := filepath.Join(t.TempDir(), "out.nt")
	require.NoError(t, store.ExportToFile(ntPath, "nt"))
	content, err := os.ReadFile(ntPath)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://example.org/resource/a> <http://example.org/ontology#hasName> \"Acme\" .\n",
		string(content))

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, store.ExportToFile(jsonPath, "json"))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded []Triple
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 1)
}

func TestBadgerStore_ExportToFile_NoTurtle(t *testing.T) {
	store := newTestBadgerStore(t)

	err := store.ExportToFile(filepath.Join(t.TempDir(), "out.ttl"), "turtle")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "turtle", unsupported.Format)
}

func TestBadgerStore_PersistAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	_, err = store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/a", "http://example.org/ontology#hasName", "Acme"),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Len())
}
