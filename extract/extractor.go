// Package extract drives the document-to-triples pipeline: process a
// source, prompt the model, parse and normalize the returned triples,
// and apply the configured post-processing.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/graph"
	"github.com/c360studio/kgraph/llm"
	"github.com/c360studio/kgraph/source"
)

// Result records one extraction run over one document. A failed run is
// still a Result: the failure lands in Errors and Triples stays empty,
// so a batch never aborts because one document was unreadable.
type Result struct {
	ID                    string            `json:"id"`
	Triples               []graph.Triple    `json:"triples"`
	DocumentSource        string            `json:"document_source"`
	ExtractionTimestamp   time.Time         `json:"extraction_timestamp"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	Metadata              map[string]string `json:"metadata"`
	Errors                []string          `json:"errors"`
	ConfigName            string            `json:"config_name"`
}

func newResult(documentSource, configName string, elapsed time.Duration) *Result {
	return &Result{
		ID:                    uuid.New().String(),
		Triples:               []graph.Triple{},
		DocumentSource:        documentSource,
		ExtractionTimestamp:   time.Now().UTC(),
		ProcessingTimeSeconds: elapsed.Seconds(),
		Metadata:              map[string]string{},
		Errors:                []string{},
		ConfigName:            configName,
	}
}

// Extractor runs configured extractions against an LLM endpoint.
type Extractor struct {
	config    *config.Configuration
	client    *llm.Client
	processor *source.Processor
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithProcessor replaces the document processor.
func WithProcessor(p *source.Processor) Option {
	return func(e *Extractor) {
		e.processor = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an extractor for the given configuration and client.
func New(cfg *config.Configuration, client *llm.Client, opts ...Option) *Extractor {
	e := &Extractor{
		config:    cfg,
		client:    client,
		processor: source.NewProcessor(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFromDocument runs the full pipeline for one source. Document
// and LLM failures are recorded in the Result rather than returned, so
// the error return covers only malformed model output.
func (e *Extractor) ExtractFromDocument(ctx context.Context, src string) (*Result, error) {
	start := time.Now()

	e.logger.Info("starting extraction from document", "source", src)

	doc, err := e.processor.Process(ctx, src)
	if err != nil {
		msg := fmt.Sprintf("Failed to process document: %v", err)
		e.logger.Warn(msg)
		result := newResult(src, e.config.Name, time.Since(start))
		result.Errors = append(result.Errors, msg)
		return result, nil
	}

	e.logger.Debug("document processed", "text_length", len(doc.Text))

	messages := llm.ExtractionMessages(doc.Text, e.config.ExtractionQuestions, e.config.Schema)
	content, err := e.client.CompleteJSON(ctx, messages)
	if err != nil {
		msg := fmt.Sprintf("LLM extraction failed: %v", err)
		e.logger.Warn(msg)
		result := newResult(src, e.config.Name, time.Since(start))
		result.Errors = append(result.Errors, msg)
		return result, nil
	}

	triples, err := e.parseResponse(content, src)
	if err != nil {
		return nil, err
	}

	triples = e.postProcess(triples)

	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata["extraction_config"] = e.config.Name
	metadata["llm_model"] = e.config.LLM.Model
	metadata["num_questions"] = strconv.Itoa(len(e.config.ExtractionQuestions))

	elapsed := time.Since(start)
	e.logger.Info("extraction completed",
		"triples", len(triples),
		"seconds", elapsed.Seconds())

	result := newResult(src, e.config.Name, elapsed)
	result.Triples = triples
	result.Metadata = metadata
	return result, nil
}

// ExtractAll runs ExtractFromDocument for each source in order.
func (e *Extractor) ExtractAll(ctx context.Context, sources []string) ([]*Result, error) {
	results := make([]*Result, 0, len(sources))
	for _, src := range sources {
		result, err := e.ExtractFromDocument(ctx, src)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// MergeResults folds a batch into one Result, concatenating triples
// and errors and summing processing time. Deduplication applies when
// the configuration enables it.
func (e *Extractor) MergeResults(results []*Result) (*Result, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("cannot merge empty results")
	}

	var allTriples []graph.Triple
	var allErrors []string
	var totalTime float64
	var sources []string

	for _, r := range results {
		allTriples = append(allTriples, r.Triples...)
		allErrors = append(allErrors, r.Errors...)
		totalTime += r.ProcessingTimeSeconds
		sources = append(sources, r.DocumentSource)
	}

	if e.config.PostProcessing.Deduplicate {
		allTriples = dedupe(allTriples)
	}

	merged := newResult("merged", e.config.Name, 0)
	merged.ProcessingTimeSeconds = totalTime
	merged.Triples = allTriples
	merged.Errors = allErrors
	merged.Metadata = map[string]string{
		"source_count":  strconv.Itoa(len(results)),
		"sources":       strings.Join(sources, ", "),
		"total_triples": strconv.Itoa(len(allTriples)),
	}
	return merged, nil
}

// rawTriple is the shape the model is asked to emit.
type rawTriple struct {
	Subject    string   `json:"subject"`
	Predicate  string   `json:"predicate"`
	Object     string   `json:"object"`
	Confidence *float32 `json:"confidence"`
}

// parseResponse decodes the model output, accepting either a bare
// array or an object with a "triples" field. Entries missing any of
// the three terms are dropped; an object without a triples field
// yields an empty set rather than an error.
func (e *Extractor) parseResponse(content, src string) ([]graph.Triple, error) {
	var raw []rawTriple

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		var wrapper struct {
			Triples []rawTriple `json:"triples"`
		}
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		raw = wrapper.Triples
	}

	var triples []graph.Triple
	for _, r := range raw {
		if r.Subject == "" || r.Predicate == "" || r.Object == "" {
			continue
		}

		t := graph.NewTriple(
			e.normalizeURI(r.Subject),
			e.normalizePredicate(r.Predicate),
			r.Object,
		).WithSource(src)

		if r.Confidence != nil {
			t = t.WithConfidence(*r.Confidence)
		}

		triples = append(triples, t)
	}

	return triples, nil
}

// normalizeURI prefixes bare entity names with the schema base URI.
func (e *Extractor) normalizeURI(uri string) string {
	if graph.IsAbsoluteURI(uri) {
		return uri
	}
	return e.config.Schema.BaseURI + uri
}

// normalizePredicate prefixes bare predicate names with the schema
// namespace.
func (e *Extractor) normalizePredicate(predicate string) string {
	if graph.IsAbsoluteURI(predicate) {
		return predicate
	}
	return e.config.Schema.Namespace + predicate
}

func (e *Extractor) postProcess(triples []graph.Triple) []graph.Triple {
	if e.config.PostProcessing.Deduplicate {
		triples = dedupe(triples)
	}
	if len(e.config.ValidationRules) > 0 {
		triples = e.applyValidationRules(triples)
	}
	return triples
}

func dedupe(triples []graph.Triple) []graph.Triple {
	var unique []graph.Triple
	for _, t := range triples {
		duplicate := false
		for _, existing := range unique {
			if existing.Matches(t) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, t)
		}
	}
	return unique
}

// applyValidationRules filters triples through the configured rules.
// Unknown rule names are ignored.
func (e *Extractor) applyValidationRules(triples []graph.Triple) []graph.Triple {
	var valid []graph.Triple

	for _, t := range triples {
		ok := true
		for _, rule := range e.config.ValidationRules {
			switch rule {
			case "require_valid_uri":
				if !strings.HasPrefix(t.Subject, "http") {
					ok = false
				}
			case "require_known_predicates":
				if _, known := e.config.Schema.Predicates[localName(t.Predicate)]; !known {
					ok = false
				}
			}
			if !ok {
				break
			}
		}
		if ok {
			valid = append(valid, t)
		}
	}

	return valid
}

// localName strips a predicate URI down to the segment after the last
// '/' and then the last '#'.
func localName(predicate string) string {
	name := predicate
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "#"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
