package llm

import (
	"fmt"
	"strings"

	"github.com/c360studio/kgraph/config"
)

// maxDocumentBytes caps the document text included in a prompt so the
// request stays within the model's context window. The cut is a byte
// cut, not a token cut.
const maxDocumentBytes = 8000

// SystemPrompt is the instruction block sent as the system message for
// every extraction request.
const SystemPrompt = `You are an expert knowledge extraction system specializing in converting unstructured text into structured RDF triples.

Your task is to:
1. Carefully read and understand the provided document
2. Extract only the information that directly answers the specified questions
3. Structure the extracted information as valid RDF triples
4. Ensure all URIs are properly formatted using the provided base URI
5. Use only the predicates defined in the schema
6. Be precise and avoid inferring information not explicitly stated

Return your response as a JSON array of triple objects.`

// BuildExtractionPrompt assembles the user message for one document:
// truncated document content, the extraction questions with their
// constraints, the target schema, and output format instructions.
func BuildExtractionPrompt(documentText string, questions []config.ExtractionQuestion, schema config.Schema) string {
	var sb strings.Builder

	sb.WriteString("## Document Content\n")
	if len(documentText) > maxDocumentBytes {
		documentText = documentText[:maxDocumentBytes]
	}
	sb.WriteString(documentText)
	sb.WriteString("\n\n")

	sb.WriteString("## Information to Extract\n")
	for _, q := range questions {
		fmt.Fprintf(&sb, "- %s: %s\n", q.ID, q.Question)
		if len(q.Constraints) > 0 {
			fmt.Fprintf(&sb, "  Constraints: %s\n", strings.Join(q.Constraints, ", "))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## RDF Schema\n")
	fmt.Fprintf(&sb, "Base URI: %s\n", schema.BaseURI)
	fmt.Fprintf(&sb, "Namespace: %s\n", schema.Namespace)

	if len(schema.Predicates) > 0 {
		sb.WriteString("\nAvailable Predicates:\n")
		for pred, desc := range schema.Predicates {
			fmt.Fprintf(&sb, "- %s: %s\n", pred, desc)
		}
	}

	sb.WriteString("\n## Instructions\n")
	sb.WriteString(`
Extract the requested information from the document and return it as RDF triples.
Each triple should have:
- subject: The entity being described (use URIs from the base URI)
- predicate: The relationship or property (use predicates from the schema)
- object: The value or related entity

Return the triples as a JSON array with objects containing 'subject', 'predicate', and 'object' fields.
Only extract information that directly answers the specified questions.
If information is not found in the document, do not create triples for it.

Example format:
[
  {
    "subject": "http://example.org/resource/company1",
    "predicate": "http://example.org/ontology#hasName",
    "object": "Acme Corporation"
  }
]
`)

	return sb.String()
}

// ExtractionMessages pairs the system prompt with the extraction
// prompt, appending the JSON-only reminder models need to skip the
// markdown wrapping.
func ExtractionMessages(documentText string, questions []config.ExtractionQuestion, schema config.Schema) []Message {
	prompt := BuildExtractionPrompt(documentText, questions, schema) +
		"\n\nPlease respond with valid JSON only. Do not include any markdown formatting or explanation text."

	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: prompt},
	}
}
