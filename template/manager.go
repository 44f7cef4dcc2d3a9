// Package template generates documents from the knowledge graph: each
// template declares the queries that feed it and a text/template body
// rendered over the query results.
package template

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	texttemplate "text/template"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/kgraph/graph"
	"github.com/c360studio/kgraph/llm"
)

// Template describes one document type: the queries that gather its
// data and the body that renders them.
type Template struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	Description     string          `yaml:"description" json:"description"`
	TemplateType    string          `yaml:"template_type" json:"template_type"`
	DataQueries     []DataQuery     `yaml:"data_queries" json:"data_queries"`
	TemplateContent string          `yaml:"template_content" json:"template_content"`
	OutputFormat    string          `yaml:"output_format" json:"output_format"`
	LLMInstructions string          `yaml:"llm_instructions,omitempty" json:"llm_instructions,omitempty"`
	PostProcessing  *PostProcessing `yaml:"post_processing,omitempty" json:"post_processing,omitempty"`
}

// DataQuery names one query a template depends on. Required queries
// abort generation on failure; optional ones degrade to a nil value.
type DataQuery struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	SPARQLQuery string `yaml:"sparql_query" json:"sparql_query"`
	Required    bool   `yaml:"required" json:"required"`
}

// PostProcessing controls optional LLM enhancement of rendered output.
type PostProcessing struct {
	EnhanceWithLLM bool   `yaml:"enhance_with_llm" json:"enhance_with_llm"`
	StyleGuide     string `yaml:"style_guide,omitempty" json:"style_guide,omitempty"`
	WordLimit      int    `yaml:"word_limit,omitempty" json:"word_limit,omitempty"`
	IncludeSources bool   `yaml:"include_sources,omitempty" json:"include_sources,omitempty"`
}

// GenerationRequest asks for one document.
type GenerationRequest struct {
	TemplateID string
	// Context adds caller-supplied values to the render context.
	Context map[string]any
	// OverrideQueries replaces query text by query ID for this run.
	OverrideQueries map[string]string
	// OutputPath, when set, is where callers intend to write the result.
	OutputPath string
}

// GeneratedDocument is one rendered (and possibly enhanced) document.
type GeneratedDocument struct {
	TemplateID       string           `json:"template_id"`
	GeneratedContent string           `json:"generated_content"`
	Metadata         DocumentMetadata `json:"metadata"`
	DataContext      map[string]any   `json:"data_context"`
}

// DocumentMetadata records how a document was produced.
type DocumentMetadata struct {
	GenerationTimestamp   time.Time `json:"generation_timestamp"`
	TemplateName          string    `json:"template_name"`
	QueriesExecuted       []string  `json:"queries_executed"`
	WordCount             int       `json:"word_count"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
}

// enhanceSystemPrompt steers the LLM when enhancement is enabled.
const enhanceSystemPrompt = "You are a skilled editor and writer. Your task is to enhance and improve the provided content while maintaining its core information and structure. Make the text more engaging, clear, and professional while preserving all important facts and data."

// Manager loads templates and generates documents against a store.
type Manager struct {
	templates map[string]*Template
	store     graph.Store
	client    *llm.Client
	funcs     texttemplate.FuncMap
	logger    *slog.Logger
}

// NewManager creates a manager over the store. client may be nil when
// no template uses LLM enhancement.
func NewManager(store graph.Store, client *llm.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		templates: make(map[string]*Template),
		store:     store,
		client:    client,
		funcs:     builtinFuncs(),
		logger:    logger,
	}
}

// builtinFuncs returns the render helpers available to every template.
func builtinFuncs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"formatList": func(items []any, separator string) string {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, separator)
		},
		"truncate": func(text string, limit int) string {
			if len(text) > limit {
				return text[:limit] + "..."
			}
			return text
		},
		"capitalize": func(text string) string {
			if text == "" {
				return text
			}
			return strings.ToUpper(text[:1]) + text[1:]
		},
	}
}

// LoadTemplate reads one template file, YAML or JSON by extension.
func (m *Manager) LoadTemplate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	var tmpl Template
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &tmpl)
	} else {
		err = yaml.Unmarshal(data, &tmpl)
	}
	if err != nil {
		return fmt.Errorf("failed to parse template file %s: %w", path, err)
	}
	if tmpl.ID == "" {
		return fmt.Errorf("template %s has no id", path)
	}

	m.logger.Info("loaded template", "name", tmpl.Name, "id", tmpl.ID)
	m.templates[tmpl.ID] = &tmpl
	return nil
}

// LoadDirectory loads every yaml, yml, and json template under dir,
// recursively. Files that fail to parse are logged and skipped; the
// count of loaded templates is returned.
func (m *Manager) LoadDirectory(dir string) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("template directory does not exist: %s", dir)
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "**/*.{yaml,yml,json}")
	if err != nil {
		return 0, fmt.Errorf("scan template directory %s: %w", dir, err)
	}

	loaded := 0
	for _, match := range matches {
		path := dir + string(os.PathSeparator) + match
		if err := m.LoadTemplate(path); err != nil {
			m.logger.Warn("failed to load template", "path", path, "error", err)
			continue
		}
		loaded++
	}

	m.logger.Info("loaded templates from directory", "count", loaded, "dir", dir)
	return loaded, nil
}

// List returns the loaded templates.
func (m *Manager) List() []*Template {
	templates := make([]*Template, 0, len(m.templates))
	for _, t := range m.templates {
		templates = append(templates, t)
	}
	return templates
}

// Get returns the template with the given ID, or nil.
func (m *Manager) Get(id string) *Template {
	return m.templates[id]
}

// Generate renders one document: execute the template's queries,
// render the body over their results, and optionally enhance the
// output with the LLM.
func (m *Manager) Generate(ctx context.Context, req *GenerationRequest) (*GeneratedDocument, error) {
	start := time.Now()

	tmpl, ok := m.templates[req.TemplateID]
	if !ok {
		return nil, fmt.Errorf("template not found: %s", req.TemplateID)
	}

	m.logger.Info("generating document from template", "name", tmpl.Name)

	dataContext := make(map[string]any)
	var queriesExecuted []string

	for _, query := range tmpl.DataQueries {
		queryText := query.SPARQLQuery
		if override, ok := req.OverrideQueries[query.ID]; ok {
			queryText = override
		}

		m.logger.Debug("executing query", "id", query.ID, "query", queryText)

		result, err := m.store.Query(queryText)
		if err != nil {
			if query.Required {
				return nil, fmt.Errorf("required query %q failed: %w", query.ID, err)
			}
			m.logger.Warn("optional query failed", "id", query.ID, "error", err)
			dataContext[query.ID] = nil
			continue
		}

		dataContext[query.ID] = coerceResult(result)
		queriesExecuted = append(queriesExecuted, query.ID)
	}

	for key, value := range req.Context {
		dataContext[key] = value
	}

	parsed, err := texttemplate.New(tmpl.ID).Funcs(m.funcs).Parse(tmpl.TemplateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", tmpl.ID, err)
	}

	var rendered strings.Builder
	if err := parsed.Execute(&rendered, dataContext); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", tmpl.ID, err)
	}

	content := rendered.String()

	if tmpl.PostProcessing != nil && tmpl.PostProcessing.EnhanceWithLLM {
		content, err = m.enhance(ctx, content, tmpl)
		if err != nil {
			return nil, err
		}
	}

	return &GeneratedDocument{
		TemplateID:       tmpl.ID,
		GeneratedContent: content,
		Metadata: DocumentMetadata{
			GenerationTimestamp:   time.Now().UTC(),
			TemplateName:          tmpl.Name,
			QueriesExecuted:       queriesExecuted,
			WordCount:             len(strings.Fields(content)),
			ProcessingTimeSeconds: time.Since(start).Seconds(),
		},
		DataContext: dataContext,
	}, nil
}

// coerceResult converts query output into render-friendly values.
// Solution bindings coerce each string through int, then float, then
// bool, keeping the string when none apply.
func coerceResult(result graph.QueryResult) any {
	if result.Kind == graph.KindBoolean {
		return result.Boolean
	}

	rows := make([]any, 0, len(result.Solutions))
	for _, solution := range result.Solutions {
		row := make(map[string]any, len(solution))
		for variable, value := range solution {
			row[variable] = coerceValue(value)
		}
		rows = append(rows, row)
	}
	return rows
}

func coerceValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

// enhance asks the LLM to polish rendered content per the template's
// post-processing settings.
func (m *Manager) enhance(ctx context.Context, content string, tmpl *Template) (string, error) {
	if m.client == nil {
		return "", fmt.Errorf("template %s requires LLM enhancement but no client is configured", tmpl.ID)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Please enhance and improve the following %s content:\n\n%s", tmpl.TemplateType, content)

	if tmpl.PostProcessing.StyleGuide != "" {
		fmt.Fprintf(&prompt, "\n\nStyle Guide: %s", tmpl.PostProcessing.StyleGuide)
	}
	if tmpl.PostProcessing.WordLimit > 0 {
		fmt.Fprintf(&prompt, "\n\nWord limit: %d words", tmpl.PostProcessing.WordLimit)
	}
	if tmpl.LLMInstructions != "" {
		fmt.Fprintf(&prompt, "\n\nAdditional instructions: %s", tmpl.LLMInstructions)
	}
	prompt.WriteString("\n\nProvide the enhanced content as your response.")

	resp, err := m.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: enhanceSystemPrompt},
		{Role: "user", Content: prompt.String()},
	})
	if err != nil {
		return "", fmt.Errorf("LLM enhancement failed: %w", err)
	}

	return resp.Content, nil
}
