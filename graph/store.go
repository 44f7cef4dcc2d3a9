package graph

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/vocabulary"
)

// InMemoryPath is the sentinel storage path that disables all disk I/O.
const InMemoryPath = ":memory:"

// Config configures a knowledge graph store.
type Config struct {
	// StoragePath is the snapshot file path, or InMemoryPath for a
	// purely in-memory store.
	StoragePath string `json:"storage_path"`
	// Namespaces maps prefix names to namespace URIs.
	Namespaces map[string]string `json:"namespaces"`
	// DefaultGraph names the default graph, if any.
	DefaultGraph string `json:"default_graph,omitempty"`
}

// DefaultConfig returns a store config persisting to the conventional
// snapshot path.
func DefaultConfig() Config {
	return Config{
		StoragePath: "knowledge_graph.db",
		Namespaces:  map[string]string{},
	}
}

// Store is the storage-and-query boundary. Two backends implement it:
// the JSON-snapshot SnapshotStore and the Badger-backed BadgerStore.
// Both produce the identical QueryResult shape and honor the same
// add/dedup contract; they differ in durability and in the export
// format subset they accept.
//
// Stores assume a single writer per process. Concurrent mutation from
// multiple goroutines or processes is undefined and must be serialized
// by the caller.
type Store interface {
	// AddTriples inserts the candidates that are not already present,
	// returning how many were added. Duplicates by (s,p,o) are
	// silently discarded; the first stored occurrence wins.
	AddTriples(triples []Triple) (int, error)

	// Triples returns the stored triples in insertion order.
	Triples() []Triple

	// Len returns the number of stored triples.
	Len() int

	// Query evaluates a query string through the configured engine.
	Query(query string) (QueryResult, error)

	// Stats computes cardinality statistics over the store.
	Stats() Stats

	// ExportToFile writes the store to path in the named format. Each
	// backend recognizes only a subset of format names; unknown names
	// fail with UnsupportedFormatError.
	ExportToFile(path, format string) error
}

// SnapshotStore keeps the full triple collection in memory and rewrites
// a JSON-array snapshot after every successful insert batch. The
// rewrite is a plain blocking file write, not an atomic replace: a
// process terminated mid-write can leave a truncated snapshot.
type SnapshotStore struct {
	triples []Triple
	config  Config
	schema  config.Schema
	engine  Engine
	logger  *slog.Logger
}

// SnapshotOption configures a SnapshotStore.
type SnapshotOption func(*SnapshotStore)

// WithEngine swaps the query strategy.
func WithEngine(e Engine) SnapshotOption {
	return func(s *SnapshotStore) {
		s.engine = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SnapshotOption {
	return func(s *SnapshotStore) {
		s.logger = logger
	}
}

// NewSnapshotStore creates a store, loading the snapshot named by
// cfg.StoragePath when it exists. A file that exists but cannot be
// read fails with IOError; content that is not a well-formed JSON
// array of triples fails with ParseError.
func NewSnapshotStore(cfg Config, schema config.Schema, opts ...SnapshotOption) (*SnapshotStore, error) {
	s := &SnapshotStore{
		config: cfg,
		schema: schema,
		engine: NewHeuristicEngine(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.StoragePath != InMemoryPath {
		if _, err := os.Stat(cfg.StoragePath); err == nil {
			data, err := os.ReadFile(cfg.StoragePath)
			if err != nil {
				return nil, &IOError{Path: cfg.StoragePath, Err: err}
			}
			if err := json.Unmarshal(data, &s.triples); err != nil {
				return nil, &ParseError{Path: cfg.StoragePath, Err: err}
			}
		}
	}

	s.logger.Info("knowledge graph initialized",
		"triples", len(s.triples),
		"path", cfg.StoragePath)

	return s, nil
}

// NewInMemoryStore creates a store with persistence disabled.
func NewInMemoryStore(schema config.Schema, opts ...SnapshotOption) *SnapshotStore {
	cfg := Config{StoragePath: InMemoryPath, Namespaces: map[string]string{}}
	s, _ := NewSnapshotStore(cfg, schema, opts...)
	return s
}

// AddTriples inserts the non-duplicate candidates and rewrites the
// snapshot. Deduplication is silent: a later duplicate's confidence,
// source, and metadata are discarded, not merged.
func (s *SnapshotStore) AddTriples(triples []Triple) (int, error) {
	added := 0
	for _, candidate := range triples {
		exists := false
		for _, existing := range s.triples {
			if existing.Matches(candidate) {
				exists = true
				break
			}
		}
		if !exists {
			s.triples = append(s.triples, candidate)
			added++
			s.logger.Debug("added triple", "ntriple", candidate.NTriple())
		}
	}

	if err := s.save(); err != nil {
		return added, err
	}

	s.logger.Info("added triples to knowledge graph", "count", added)
	return added, nil
}

// save rewrites the entire snapshot. Not crash-safe by design.
func (s *SnapshotStore) save() error {
	if s.config.StoragePath == InMemoryPath {
		return nil
	}
	data, err := json.MarshalIndent(s.triples, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal knowledge graph: %w", err)
	}
	if err := os.WriteFile(s.config.StoragePath, data, 0644); err != nil {
		return &IOError{Path: s.config.StoragePath, Err: err}
	}
	return nil
}

// Triples returns the stored triples in insertion order. The returned
// slice is the store's backing array; callers must not mutate it.
func (s *SnapshotStore) Triples() []Triple {
	return s.triples
}

// Len returns the number of stored triples.
func (s *SnapshotStore) Len() int {
	return len(s.triples)
}

// Schema returns the RDF schema the store was created with.
func (s *SnapshotStore) Schema() config.Schema {
	return s.schema
}

// Query evaluates a query string through the configured engine.
func (s *SnapshotStore) Query(query string) (QueryResult, error) {
	s.logger.Debug("executing query", "query", query)
	return s.engine.Evaluate(query, s.triples)
}

// Stats computes cardinality statistics over the store.
func (s *SnapshotStore) Stats() Stats {
	return CollectStats(s.triples)
}

// ExportToFile writes the store to path. Recognized formats: turtle,
// ttl, ntriples, nt, json. The jsonld and rdfxml encodings are not
// available through this entry point; callers needing them invoke the
// export.Serializer directly.
func (s *SnapshotStore) ExportToFile(path, format string) error {
	var sb strings.Builder

	switch strings.ToLower(format) {
	case "turtle", "ttl":
		fmt.Fprintf(&sb, "@prefix rdf: <%s> .\n", vocabulary.RDF)
		fmt.Fprintf(&sb, "@prefix rdfs: <%s> .\n", vocabulary.RDFS)
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n\n", s.schema.Prefix, s.schema.Namespace)
		for _, t := range s.triples {
			fmt.Fprintf(&sb, "%s %s %s .\n",
				s.compactURI(t.Subject),
				s.compactURI(t.Predicate),
				s.formatObject(t.Object))
		}
	case "ntriples", "nt":
		for _, t := range s.triples {
			sb.WriteString(t.NTriple())
			sb.WriteString("\n")
		}
	case "json":
		data, err := json.MarshalIndent(s.triples, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal triples: %w", err)
		}
		sb.Write(data)
	default:
		return &UnsupportedFormatError{Format: format}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}

	s.logger.Info("knowledge graph exported", "path", path, "format", format)
	return nil
}

// compactURI rewrites a URI inside the schema namespace as
// prefix:local; other URIs are angle-bracketed. Non-URI values are
// quoted so malformed subjects still produce parseable output.
func (s *SnapshotStore) compactURI(value string) string {
	if strings.HasPrefix(value, "http") {
		if strings.HasPrefix(value, s.schema.Namespace) {
			return s.schema.Prefix + ":" + value[len(s.schema.Namespace):]
		}
		return "<" + value + ">"
	}
	return `"` + value + `"`
}

// formatObject renders an object position value for Turtle.
func (s *SnapshotStore) formatObject(value string) string {
	if strings.HasPrefix(value, "http") {
		return s.compactURI(value)
	}
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}
