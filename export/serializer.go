// Package export renders triple collections into the supported RDF
// serialization formats and validates triples before export.
package export

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/c360studio/kgraph/graph"
	"github.com/c360studio/kgraph/vocabulary"
)

// Format names one of the supported serializations.
type Format string

const (
	Turtle   Format = "turtle"
	JSONLD   Format = "jsonld"
	NTriples Format = "ntriples"
	RDFXML   Format = "rdfxml"
	JSON     Format = "json"
)

// ParseFormat resolves a user-supplied format name, accepting the
// common aliases for each serialization.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return Turtle, nil
	case "jsonld", "json-ld":
		return JSONLD, nil
	case "ntriples", "nt", "n-triples":
		return NTriples, nil
	case "rdfxml", "rdf-xml", "xml":
		return RDFXML, nil
	case "json":
		return JSON, nil
	default:
		return "", &graph.UnsupportedFormatError{Format: name}
	}
}

// Serializer renders triples against one schema namespace. URIs inside
// the namespace compact to prefix:local; everything else stays
// absolute.
type Serializer struct {
	Namespace string
	Prefix    string
}

// NewSerializer creates a serializer for the given namespace and
// prefix.
func NewSerializer(namespace, prefix string) *Serializer {
	return &Serializer{Namespace: namespace, Prefix: prefix}
}

// Serialize renders the triples in the requested format.
func (s *Serializer) Serialize(triples []graph.Triple, format Format) (string, error) {
	switch format {
	case Turtle:
		return s.serializeTurtle(triples), nil
	case JSONLD:
		return s.serializeJSONLD(triples)
	case NTriples:
		return s.serializeNTriples(triples), nil
	case RDFXML:
		return s.serializeRDFXML(triples), nil
	case JSON:
		return s.serializeJSON(triples)
	default:
		return "", &graph.UnsupportedFormatError{Format: string(format)}
	}
}

func (s *Serializer) serializeTurtle(triples []graph.Triple) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", s.Prefix, s.Namespace)
	fmt.Fprintf(&sb, "@prefix rdf: <%s> .\n", vocabulary.RDF)
	fmt.Fprintf(&sb, "@prefix rdfs: <%s> .\n\n", vocabulary.RDFS)

	for _, t := range triples {
		fmt.Fprintf(&sb, "%s %s %s .\n",
			s.compactURI(t.Subject),
			s.compactURI(t.Predicate),
			s.turtleObject(t.Object))
	}

	return sb.String()
}

func (s *Serializer) serializeNTriples(triples []graph.Triple) string {
	var sb strings.Builder
	for _, t := range triples {
		object := t.Object
		if graph.IsAbsoluteURI(object) {
			object = "<" + object + ">"
		} else {
			object = `"` + escapeLiteral(object) + `"`
		}
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n", t.Subject, t.Predicate, object)
	}
	return sb.String()
}

// serializeJSONLD emits a @context/@graph document. Triples are
// grouped by subject in first-seen order; a predicate asserted twice
// for the same subject keeps only its last object.
func (s *Serializer) serializeJSONLD(triples []graph.Triple) (string, error) {
	var order []string
	subjects := make(map[string]map[string]any)

	for _, t := range triples {
		node, ok := subjects[t.Subject]
		if !ok {
			node = map[string]any{"@id": t.Subject}
			subjects[t.Subject] = node
			order = append(order, t.Subject)
		}

		key := t.Predicate
		if strings.HasPrefix(key, s.Namespace) {
			key = s.Prefix + ":" + key[len(s.Namespace):]
		}

		if graph.IsAbsoluteURI(t.Object) {
			node[key] = map[string]any{"@id": t.Object}
		} else {
			node[key] = t.Object
		}
	}

	graphNodes := make([]map[string]any, 0, len(order))
	for _, subject := range order {
		graphNodes = append(graphNodes, subjects[subject])
	}

	doc := map[string]any{
		"@context": map[string]string{s.Prefix: s.Namespace},
		"@graph":   graphNodes,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize JSON-LD: %w", err)
	}
	return string(data), nil
}

func (s *Serializer) serializeRDFXML(triples []graph.Triple) string {
	var sb strings.Builder

	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&sb,
		"<rdf:RDF xmlns:rdf=\"%s\" xmlns:%s=\"%s\">\n",
		vocabulary.RDF, s.Prefix, s.Namespace)

	var order []string
	bySubject := make(map[string][]graph.Triple)
	for _, t := range triples {
		if _, ok := bySubject[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for _, subject := range order {
		fmt.Fprintf(&sb, "  <rdf:Description rdf:about=\"%s\">\n", subject)
		for _, t := range bySubject[subject] {
			name := s.xmlPredicateName(t.Predicate)
			if graph.IsAbsoluteURI(t.Object) {
				fmt.Fprintf(&sb, "    <%s rdf:resource=\"%s\"/>\n", name, t.Object)
			} else {
				fmt.Fprintf(&sb, "    <%s>%s</%s>\n", name, html.EscapeString(t.Object), name)
			}
		}
		sb.WriteString("  </rdf:Description>\n")
	}

	sb.WriteString("</rdf:RDF>\n")
	return sb.String()
}

func (s *Serializer) serializeJSON(triples []graph.Triple) (string, error) {
	data, err := json.MarshalIndent(triples, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize JSON: %w", err)
	}
	return string(data), nil
}

// xmlPredicateName produces an element name for a predicate: compacted
// against the schema namespace when possible, otherwise the segment
// after the last '#'. A predicate with neither yields itself, which
// may not be well-formed XML; validation catches such predicates
// before export.
func (s *Serializer) xmlPredicateName(predicate string) string {
	if strings.HasPrefix(predicate, s.Namespace) {
		return s.Prefix + ":" + predicate[len(s.Namespace):]
	}
	if i := strings.LastIndex(predicate, "#"); i >= 0 {
		return predicate[i+1:]
	}
	return predicate
}

func (s *Serializer) compactURI(uri string) string {
	if strings.HasPrefix(uri, s.Namespace) {
		return s.Prefix + ":" + uri[len(s.Namespace):]
	}
	return "<" + uri + ">"
}

func (s *Serializer) turtleObject(object string) string {
	if graph.IsAbsoluteURI(object) {
		return "<" + object + ">"
	}
	return `"` + escapeLiteral(object) + `"`
}

// escapeLiteral backslash-escapes double quotes. Other characters pass
// through untouched; literals containing newlines or backslashes will
// not round-trip through a strict parser.
func escapeLiteral(literal string) string {
	return strings.ReplaceAll(literal, `"`, `\"`)
}
