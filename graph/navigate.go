package graph

import (
	"strings"

	"github.com/c360studio/kgraph/config"
)

// Navigator answers entity-centric lookups over a store: properties of
// one entity, members of a type, and bounded neighborhood traversal.
// It reads the store's triples on every call, so results always reflect
// the current contents.
type Navigator struct {
	store  Store
	schema config.Schema
}

// NewNavigator creates a navigator over the store.
func NewNavigator(store Store, schema config.Schema) *Navigator {
	return &Navigator{store: store, schema: schema}
}

// EntityProperties returns the predicate-to-objects map for one
// subject. Objects under each predicate keep insertion order. An
// entity with no triples yields an empty map, not an error.
func (n *Navigator) EntityProperties(entityURI string) map[string][]string {
	properties := make(map[string][]string)
	for _, t := range n.store.Triples() {
		if t.Subject == entityURI {
			properties[t.Predicate] = append(properties[t.Predicate], t.Object)
		}
	}
	return properties
}

// EntitiesByType returns the subjects asserted to have the given type.
// A bare type name is resolved against the schema namespace; names
// already starting with http pass through. Any predicate containing
// the substring "type" counts as a type assertion; the match is
// case-sensitive, so rdf:type qualifies but a camel-cased hasType
// does not.
func (n *Navigator) EntitiesByType(entityType string) []string {
	typeURI := n.schema.ResolveType(entityType)

	var entities []string
	for _, t := range n.store.Triples() {
		if strings.Contains(t.Predicate, "type") && t.Object == typeURI {
			entities = append(entities, t.Subject)
		}
	}
	return entities
}

// RelatedEntities traverses the graph breadth-first from entityURI,
// following edges in both directions, and returns the entities reached
// within maxDepth hops in discovery order. The start entity is never
// included; maxDepth 0 yields an empty result. Only http-prefixed
// objects are followed forward, matching the store's URI/literal
// convention.
func (n *Navigator) RelatedEntities(entityURI string, maxDepth int) []string {
	var related []string
	visited := make(map[string]bool)
	recorded := make(map[string]bool)

	type frame struct {
		uri   string
		depth int
	}
	queue := []frame{{uri: entityURI, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth || visited[current.uri] {
			continue
		}
		visited[current.uri] = true

		for _, t := range n.store.Triples() {
			switch {
			case t.Subject == current.uri:
				if strings.HasPrefix(t.Object, "http") && !visited[t.Object] {
					if !recorded[t.Object] {
						recorded[t.Object] = true
						related = append(related, t.Object)
					}
					queue = append(queue, frame{uri: t.Object, depth: current.depth + 1})
				}
			case t.Object == current.uri && strings.HasPrefix(t.Object, "http"):
				if !visited[t.Subject] {
					if !recorded[t.Subject] {
						recorded[t.Subject] = true
						related = append(related, t.Subject)
					}
					queue = append(queue, frame{uri: t.Subject, depth: current.depth + 1})
				}
			}
		}
	}

	return related
}
