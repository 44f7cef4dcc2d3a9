// Package vocabulary defines well-known RDF namespace IRIs used by the
// serializers and the graph store.
package vocabulary

// Standard W3C namespaces.
const (
	// RDF is the RDF syntax namespace.
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFS is the RDF Schema namespace.
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"

	// XSD is the XML Schema datatypes namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"
)

// RDFType is the rdf:type predicate IRI.
const RDFType = RDF + "type"
