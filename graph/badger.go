package graph

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Key layout: triples live under t:<seq> in insertion order, and the
// dedup index maps i:<s>\x00<p>\x00<o> back to the sequence number.
var (
	triplePrefix = []byte("t:")
	indexPrefix  = []byte("i:")
	seqKey       = []byte("kgraph:seq")
)

// BadgerStore is the durable Store backend. Every accepted triple is
// committed through a Badger transaction before AddTriples returns, so
// a crash never loses acknowledged writes and never leaves a truncated
// file the way the snapshot backend can.
//
// Query and Stats load the full collection into memory per call; the
// backend trades that scan cost for write durability, not for scale.
type BadgerStore struct {
	db     *badger.DB
	engine Engine
	logger *slog.Logger
}

// badgerSlogAdapter bridges Badger's internal logging onto slog.
type badgerSlogAdapter struct {
	logger *slog.Logger
}

func (l *badgerSlogAdapter) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerSlogAdapter) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerOption configures a BadgerStore.
type BadgerOption func(*BadgerStore)

// WithBadgerEngine swaps the query strategy.
func WithBadgerEngine(e Engine) BadgerOption {
	return func(s *BadgerStore) {
		s.engine = e
	}
}

// WithBadgerLogger sets the logger.
func WithBadgerLogger(logger *slog.Logger) BadgerOption {
	return func(s *BadgerStore) {
		s.logger = logger
	}
}

// NewBadgerStore opens (or creates) a Badger database at path. The
// InMemoryPath sentinel opens Badger in memory-only mode, mirroring
// the snapshot backend's convention.
func NewBadgerStore(path string, opts ...BadgerOption) (*BadgerStore, error) {
	s := &BadgerStore{
		engine: NewHeuristicEngine(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var options badger.Options
	if path == InMemoryPath {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		options = badger.DefaultOptions(path)
	}
	options = options.WithLogger(&badgerSlogAdapter{logger: s.logger})

	db, err := badger.Open(options)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	s.db = db

	s.logger.Info("badger knowledge graph opened",
		"triples", s.Len(),
		"path", path)

	return s, nil
}

// Close releases the underlying database. The store must not be used
// afterwards.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func indexKey(t Triple) []byte {
	var buf bytes.Buffer
	buf.Write(indexPrefix)
	buf.WriteString(t.Subject)
	buf.WriteByte(0)
	buf.WriteString(t.Predicate)
	buf.WriteByte(0)
	buf.WriteString(t.Object)
	return buf.Bytes()
}

func tripleKey(seq uint64) []byte {
	key := make([]byte, len(triplePrefix)+8)
	copy(key, triplePrefix)
	binary.BigEndian.PutUint64(key[len(triplePrefix):], seq)
	return key
}

// AddTriples inserts the candidates not already present and returns
// how many were added. Duplicates by (s,p,o) are discarded; the first
// stored occurrence wins. The whole batch commits in one transaction.
func (s *BadgerStore) AddTriples(triples []Triple) (int, error) {
	added := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		seq, err := s.nextSeq(txn)
		if err != nil {
			return err
		}
		for _, candidate := range triples {
			idx := indexKey(candidate)
			if _, err := txn.Get(idx); err == nil {
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			data, err := json.Marshal(candidate)
			if err != nil {
				return fmt.Errorf("marshal triple: %w", err)
			}
			if err := txn.Set(tripleKey(seq), data); err != nil {
				return err
			}
			if err := txn.Set(idx, tripleKey(seq)); err != nil {
				return err
			}
			seq++
			added++
		}
		return s.storeSeq(txn, seq)
	})
	if err != nil {
		return 0, fmt.Errorf("add triples: %w", err)
	}

	s.logger.Info("added triples to knowledge graph", "count", added)
	return added, nil
}

func (s *BadgerStore) nextSeq(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(seqKey)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		seq = binary.BigEndian.Uint64(val)
		return nil
	})
	return seq, err
}

func (s *BadgerStore) storeSeq(txn *badger.Txn, seq uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, seq)
	return txn.Set(seqKey, val)
}

// Triples returns the stored triples in insertion order.
func (s *BadgerStore) Triples() []Triple {
	var triples []Triple
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = triplePrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var t Triple
				if err := json.Unmarshal(val, &t); err != nil {
					return err
				}
				triples = append(triples, t)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return triples
}

// Len returns the number of stored triples.
func (s *BadgerStore) Len() int {
	count := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = triplePrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Query evaluates a query string through the configured engine.
func (s *BadgerStore) Query(query string) (QueryResult, error) {
	s.logger.Debug("executing query", "query", query)
	return s.engine.Evaluate(query, s.Triples())
}

// Stats computes cardinality statistics over the store.
func (s *BadgerStore) Stats() Stats {
	return CollectStats(s.Triples())
}

// ExportToFile writes the store to path. Recognized formats: ntriples,
// nt, json. Turtle is not available here because this backend carries
// no schema for prefix compaction.
func (s *BadgerStore) ExportToFile(path, format string) error {
	var sb strings.Builder

	switch strings.ToLower(format) {
	case "ntriples", "nt":
		for _, t := range s.Triples() {
			sb.WriteString(t.NTriple())
			sb.WriteString("\n")
		}
	case "json":
		data, err := json.MarshalIndent(s.Triples(), "", "  ")
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
