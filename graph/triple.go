// Package graph provides the in-process knowledge graph: an append-only
// triple collection with deduplicating insert, constrained query
// evaluation, bounded traversal, and snapshot persistence.
package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Triple is a subject-predicate-object statement with extraction
// provenance. Identity for deduplication is exactly (Subject,
// Predicate, Object); Confidence, Source, and Metadata are carried
// along but never compared.
type Triple struct {
	Subject    string            `json:"subject"`
	Predicate  string            `json:"predicate"`
	Object     string            `json:"object"`
	Confidence float32           `json:"confidence"`
	Source     string            `json:"source,omitempty"`
	Metadata   map[string]string `json:"metadata"`
}

// NewTriple creates a triple with full confidence and empty metadata.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Confidence: 1.0,
		Metadata:   map[string]string{},
	}
}

// WithSource returns a copy of the triple with the source set.
func (t Triple) WithSource(source string) Triple {
	t.Source = source
	return t
}

// WithConfidence returns a copy of the triple with the confidence set.
func (t Triple) WithConfidence(confidence float32) Triple {
	t.Confidence = confidence
	return t
}

// Matches reports whether the two triples share the same (s,p,o)
// identity.
func (t Triple) Matches(other Triple) bool {
	return t.Subject == other.Subject &&
		t.Predicate == other.Predicate &&
		t.Object == other.Object
}

// NTriple renders the triple as a single N-Triples line. The object is
// written as a URI when it is absolute and as a quoted literal
// otherwise; embedded double quotes are backslash-escaped.
func (t Triple) NTriple() string {
	object := t.Object
	if IsAbsoluteURI(object) {
		object = "<" + object + ">"
	} else {
		object = `"` + strings.ReplaceAll(object, `"`, `\"`) + `"`
	}
	return fmt.Sprintf("<%s> <%s> %s .", t.Subject, t.Predicate, object)
}

// UnmarshalJSON decodes a triple, defaulting Confidence to 1.0 when the
// field is absent and ensuring Metadata is never nil.
func (t *Triple) UnmarshalJSON(data []byte) error {
	type alias Triple
	aux := alias{Confidence: 1.0}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Metadata == nil {
		aux.Metadata = map[string]string{}
	}
	*t = Triple(aux)
	return nil
}

// IsAbsoluteURI reports whether s is an absolute http(s) URI.
func IsAbsoluteURI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
