package extract_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/extract"
	"github.com/c360studio/kgraph/llm"
	_ "github.com/c360studio/kgraph/llm/providers"
)

// llmStub serves a fixed completion content for every request.
func llmStub(t *testing.T, content string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL string) *config.Configuration {
	cfg := config.Example()
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.TimeoutSeconds = 5
	return cfg
}

func newExtractor(t *testing.T, cfg *config.Configuration) *extract.Extractor {
	t.Helper()

	client, err := llm.NewClient(cfg.LLM)
	require.NoError(t, err)
	return extract.New(cfg, client)
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractFromDocument(t *testing.T) {
	server := llmStub(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme Corporation"},
		{"subject": "http://example.org/resource/alice", "predicate": "http://example.org/ontology#worksFor", "object": "http://example.org/resource/acme", "confidence": 0.8}
	]`)

	cfg := testConfig(server.URL)
	extractor := newExtractor(t, cfg)
	doc := writeDocument(t, "Alice works for Acme Corporation.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, doc, result.DocumentSource)
	assert.Equal(t, cfg.Name, result.ConfigName)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Triples, 2)
	assert.Equal(t, "Acme Corporation", result.Triples[0].Object)
	assert.Equal(t, float32(1.0), result.Triples[0].Confidence)
	assert.Equal(t, float32(0.8), result.Triples[1].Confidence)
	assert.Equal(t, doc, result.Triples[0].Source)

	assert.Equal(t, cfg.Name, result.Metadata["extraction_config"])
	assert.Equal(t, "2", result.Metadata["num_questions"])
}

func TestExtractFromDocument_WrapperObject(t *testing.T) {
	server := llmStub(t, `{"triples": [
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"}
	]}`)

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, result.Triples, 1)
}

func TestExtractFromDocument_CodeFencedResponse(t *testing.T) {
	server := llmStub(t, "```json\n[{\"subject\": \"http://example.org/resource/acme\", \"predicate\": \"http://example.org/ontology#hasName\", \"object\": \"Acme\"}]\n```")

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, result.Triples, 1)
}

func TestExtractFromDocument_NormalizesBareTerms(t *testing.T) {
	server := llmStub(t, `[
		{"subject": "acme", "predicate": "hasName", "object": "Acme"}
	]`)

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, result.Triples, 1)
	assert.Equal(t, "http://example.org/resource/acme", result.Triples[0].Subject)
	assert.Equal(t, "http://example.org/ontology#hasName", result.Triples[0].Predicate)
}

func TestExtractFromDocument_DropsIncompleteTriples(t *testing.T) {
	server := llmStub(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"},
		{"subject": "", "predicate": "http://example.org/ontology#hasName", "object": "x"},
		{"subject": "http://example.org/resource/b", "predicate": "http://example.org/ontology#hasName"}
	]`)

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, result.Triples, 1)
}

func TestExtractFromDocument_Deduplicates(t *testing.T) {
	server := llmStub(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"},
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"}
	]`)

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Len(t, result.Triples, 1)
}

func TestExtractFromDocument_ValidationRules(t *testing.T) {
	// Example config enables require_valid_uri and
	// require_known_predicates. The unknown predicate and non-URI
	// subject must both be filtered out.
	server := llmStub(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"},
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#unknownThing", "object": "x"}
	]`)

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	result, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, result.Triples, 1)
	assert.Equal(t, "http://example.org/ontology#hasName", result.Triples[0].Predicate)
}

func TestExtractFromDocument_MalformedResponse(t *testing.T) {
	server := llmStub(t, "this is not json at all")

	extractor := newExtractor(t, testConfig(server.URL))
	doc := writeDocument(t, "Acme.")

	_, err := extractor.ExtractFromDocument(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON response")
}

func TestExtractFromDocument_UnreadableSource(t *testing.T) {
	server := llmStub(t, "[]")

	extractor := newExtractor(t, testConfig(server.URL))

	result, err := extractor.ExtractFromDocument(context.Background(),
		filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err, "document failures land in the result, not the error")

	assert.Empty(t, result.Triples)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Failed to process document")
}

func TestExtractAll(t *testing.T) {
	server := llmStub(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"}
	]`)

	extractor := newExtractor(t, testConfig(server.URL))
	docs := []string{
		writeDocument(t, "First."),
		writeDocument(t, "Second."),
	}

	results, err := extractor.ExtractAll(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, docs[0], results[0].DocumentSource)
	assert.Equal(t, docs[1], results[1].DocumentSource)
}

func TestMergeResults(t *testing.T) {
	server := llmStub(t, "[]")
	extractor := newExtractor(t, testConfig(server.URL))

	first := resultWithTriples(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"}
	]`)
	second := resultWithTriples(t, `[
		{"subject": "http://example.org/resource/acme", "predicate": "http://example.org/ontology#hasName", "object": "Acme"},
		{"subject": "http://example.org/resource/b", "predicate": "http://example.org/ontology#hasName", "object": "B Corp"}
	]`)

	merged, err := extractor.MergeResults([]*extract.Result{first, second})
	require.NoError(t, err)

	assert.Equal(t, "merged", merged.DocumentSource)
	assert.Len(t, merged.Triples, 2, "duplicates across documents collapse")
	assert.Equal(t, "2", merged.Metadata["source_count"])
	assert.Equal(t, "2", merged.Metadata["total_triples"])
	assert.InDelta(t,
		first.ProcessingTimeSeconds+second.ProcessingTimeSeconds,
		merged.ProcessingTimeSeconds, 1e-9)
}

func TestMergeResults_Empty(t *testing.T) {
	server := llmStub(t, "[]")
	extractor := newExtractor(t, testConfig(server.URL))

	_, err := extractor.MergeResults(nil)
	assert.Error(t, err)
}

// resultWithTriples runs one extraction against a stub serving the given
// content and returns the result.
func resultWithTriples(t *testing.T, content string) *extract.Result {
	t.Helper()

	server := llmStub(t, content)
	extractor := newExtractor(t, testConfig(server.URL))

	result, err := extractor.ExtractFromDocument(context.Background(), writeDocument(t, "doc"))
	require.NoError(t, err)
	return result
}
