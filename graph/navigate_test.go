package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/kgraph/vocabulary"
)

func navigatorFixture(t *testing.T) *Navigator {
	t.Helper()

	store := NewInMemoryStore(testSchema())
	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasName", "Alice"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasRole", "CEO"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasRole", "Founder"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#worksFor", "http://example.org/resource/acme"),
		NewTriple("http://example.org/resource/acme", "http://example.org/ontology#locatedIn", "http://example.org/resource/berlin"),
		NewTriple("http://example.org/resource/bob", "http://example.org/ontology#worksFor", "http://example.org/resource/alice"),
	})
	require.NoError(t, err)

	return NewNavigator(store, testSchema())
}

// typedFixture asserts types with rdf:type, whose IRI contains the
// lowercase "type" substring the navigator matches on.
func typedFixture(t *testing.T) *Navigator {
	t.Helper()

	store := NewInMemoryStore(testSchema())
	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/alice", vocabulary.RDFType, "http://example.org/ontology#Person"),
		NewTriple("http://example.org/resource/acme", vocabulary.RDFType, "http://example.org/ontology#Organization"),
	})
	require.NoError(t, err)

	return NewNavigator(store, testSchema())
}

func TestNavigator_EntityProperties(t *testing.T) {
	nav := navigatorFixture(t)

	props := nav.EntityProperties("http://example.org/resource/alice")

	assert.Equal(t, []string{"Alice"}, props["http://example.org/ontology#hasName"])
	assert.Equal(t, []string{"CEO", "Founder"}, props["http://example.org/ontology#hasRole"],
		"objects keep insertion order")
	assert.Len(t, props, 3)
}

func TestNavigator_EntityProperties_UnknownEntity(t *testing.T) {
	nav := navigatorFixture(t)

	props := nav.EntityProperties("http://example.org/resource/nobody")
	assert.Empty(t, props)
}

func TestNavigator_EntitiesByType(t *testing.T) {
	nav := typedFixture(t)

	entities := nav.EntitiesByType("Person")
	assert.Equal(t, []string{"http://example.org/resource/alice"}, entities)
}

func TestNavigator_EntitiesByType_AbsoluteURI(t *testing.T) {
	nav := typedFixture(t)

	entities := nav.EntitiesByType("http://example.org/ontology#Organization")
	assert.Equal(t, []string{"http://example.org/resource/acme"}, entities)
}

func TestNavigator_EntitiesByType_CaseSensitivePredicate(t *testing.T) {
	store := NewInMemoryStore(testSchema())
	_, err := store.AddTriples([]Triple{
		// Camel-cased Type does not contain the lowercase "type"
		// substring and is not a type assertion.
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#hasType", "http://example.org/ontology#Person"),
	})
	require.NoError(t, err)

	nav := NewNavigator(store, testSchema())
	assert.Empty(t, nav.EntitiesByType("Person"))
}

func TestNavigator_EntitiesByType_NoMatches(t *testing.T) {
	nav := typedFixture(t)

	assert.Empty(t, nav.EntitiesByType("Company"))
}

func TestNavigator_RelatedEntities_DepthZero(t *testing.T) {
	nav := navigatorFixture(t)

	assert.Empty(t, nav.RelatedEntities("http://example.org/resource/alice", 0))
}

func TestNavigator_RelatedEntities_DepthOne(t *testing.T) {
	nav := navigatorFixture(t)

	related := nav.RelatedEntities("http://example.org/resource/alice", 1)

	// Forward via worksFor, reverse via bob's worksFor edge. Literal
	// objects are never followed.
	assert.Equal(t, []string{
		"http://example.org/resource/acme",
		"http://example.org/resource/bob",
	}, related)
}

func TestNavigator_RelatedEntities_DepthTwo(t *testing.T) {
	nav := navigatorFixture(t)

	related := nav.RelatedEntities("http://example.org/resource/alice", 2)

	assert.Equal(t, []string{
		"http://example.org/resource/acme",
		"http://example.org/resource/bob",
		"http://example.org/resource/berlin",
	}, related)
}

func TestNavigator_RelatedEntities_RecordsTypeObjects(t *testing.T) {
	store := NewInMemoryStore(testSchema())
	_, err := store.AddTriples([]Triple{
		NewTriple("http://example.org/resource/alice", vocabulary.RDFType, "http://example.org/ontology#Person"),
		NewTriple("http://example.org/resource/alice", "http://example.org/ontology#worksFor", "http://example.org/resource/acme"),
	})
	require.NoError(t, err)

	nav := NewNavigator(store, testSchema())
	related := nav.RelatedEntities("http://example.org/resource/alice", 1)

	// Class URIs are absolute, so type assertions surface classes as
	// related entities alongside the plain edges.
	assert.Equal(t, []string{
		"http://example.org/ontology#Person",
		"http://example.org/resource/acme",
	}, related)
}

func TestNavigator_RelatedEntities_NoDuplicates(t *testing.T) {
	nav := navigatorFixture(t)

	related := nav.RelatedEntities("http://example.org/resource/alice", 5)

	seen := make(map[string]bool)
	for _, uri := range related {
		assert.False(t, seen[uri], "duplicate entity %s", uri)
		seen[uri] = true
	}
	assert.NotContains(t, related, "http://example.org/resource/alice",
		"the start entity is never related to itself")
}
