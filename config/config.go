// Package config provides configuration loading and management for
// kgraph extraction and generation runs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration describes one extraction project: what to ask, the RDF
// schema to target, and which model endpoint to use.
type Configuration struct {
	Name                string               `yaml:"name" json:"name"`
	Description         string               `yaml:"description" json:"description"`
	Version             string               `yaml:"version" json:"version"`
	ExtractionQuestions []ExtractionQuestion `yaml:"extraction_questions" json:"extraction_questions"`
	Schema              Schema               `yaml:"rdf_schema" json:"rdf_schema"`
	OutputFormat        string               `yaml:"output_format" json:"output_format"`
	LLM                 LLMSettings          `yaml:"llm_settings" json:"llm_settings"`
	ValidationRules     []string             `yaml:"validation_rules" json:"validation_rules"`
	PostProcessing      PostProcessing       `yaml:"post_processing" json:"post_processing"`
}

// ExtractionQuestion is one piece of information the LLM is asked to
// pull out of each document.
type ExtractionQuestion struct {
	ID           string   `yaml:"id" json:"id"`
	Question     string   `yaml:"question" json:"question"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	ExpectedType string   `yaml:"expected_type,omitempty" json:"expected_type,omitempty"`
	Constraints  []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Schema describes the RDF vocabulary extractions are normalized
// against. Namespace prefixes predicates and classes; BaseURI prefixes
// entity instances. The predicate and class maps are human-readable
// descriptions used for validation and prompt construction; the store
// itself does not enforce them.
type Schema struct {
	Namespace          string            `yaml:"namespace" json:"namespace"`
	Prefix             string            `yaml:"prefix" json:"prefix"`
	BaseURI            string            `yaml:"base_uri" json:"base_uri"`
	Predicates         map[string]string `yaml:"predicates,omitempty" json:"predicates,omitempty"`
	Classes            map[string]string `yaml:"classes,omitempty" json:"classes,omitempty"`
	CustomVocabularies map[string]string `yaml:"custom_vocabularies,omitempty" json:"custom_vocabularies,omitempty"`
}

// LLMSettings configures the text-generation endpoint.
type LLMSettings struct {
	// BaseURL is the OpenAI-compatible server URL (vLLM, Ollama).
	BaseURL string `yaml:"base_url" json:"base_url"`
	// APIKey is sent as a bearer token when set.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	// Model is the model identifier to request.
	Model string `yaml:"model" json:"model"`
	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature" json:"temperature"`
	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `yaml:"timeout" json:"timeout"`
}

// PostProcessing controls what happens to triples after extraction.
type PostProcessing struct {
	Deduplicate   bool `yaml:"deduplicate" json:"deduplicate"`
	NormalizeURIs bool `yaml:"normalize_uris" json:"normalize_uris"`
}

// Defaults applied when fields are absent from the loaded file.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096
	DefaultTimeout     = 120
)

// LoadFromFile loads a configuration from a YAML or JSON file, chosen
// by extension, and fills in LLM defaults.
func LoadFromFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Configuration{
		LLM: LLMSettings{
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
			TimeoutSeconds: DefaultTimeout,
		},
		PostProcessing: PostProcessing{Deduplicate: true, NormalizeURIs: true},
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration to a YAML or JSON file, chosen by
// extension.
func (c *Configuration) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration can drive an extraction run.
func (c *Configuration) Validate() error {
	if len(c.ExtractionQuestions) == 0 {
		return fmt.Errorf("no extraction questions defined")
	}
	if c.Schema.BaseURI == "" {
		return fmt.Errorf("no base URI defined for RDF schema")
	}
	for _, q := range c.ExtractionQuestions {
		if q.ID == "" {
			return fmt.Errorf("question missing ID: %s", q.Question)
		}
	}
	return nil
}

// Example returns a ready-to-edit configuration for extracting
// organization and person information.
func Example() *Configuration {
	return &Configuration{
		Name:        "Example RDF Extraction Config",
		Description: "Extract organization and person information from documents",
		Version:     "1.0",
		ExtractionQuestions: []ExtractionQuestion{
			{
				ID:           "org_name",
				Question:     "What organizations are mentioned in the document?",
				Description:  "Extract names of companies, institutions, or organizations",
				ExpectedType: "string",
				Constraints:  []string{"Must be proper noun", "Full organization name"},
			},
			{
				ID:           "person_name",
				Question:     "What people are mentioned with their roles?",
				Description:  "Extract person names and their associated roles or titles",
				ExpectedType: "object",
				Constraints:  []string{"Include full name", "Include job title if mentioned"},
			},
		},
		Schema: Schema{
			Namespace: "http://example.org/ontology#",
			Prefix:    "ex",
			BaseURI:   "http://example.org/resource/",
			Predicates: map[string]string{
				"hasName":   "Entity has name",
				"hasRole":   "Person has role",
				"worksFor":  "Person works for organization",
				"locatedIn": "Entity is located in place",
			},
			Classes: map[string]string{
				"Person":       "A human being",
				"Organization": "A company or institution",
				"Role":         "A job title or position",
			},
		},
		OutputFormat: "turtle",
		LLM: LLMSettings{
			BaseURL:        "http://localhost:8000",
			Model:          "Qwen/Qwen2.5-32B-Instruct",
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
			TimeoutSeconds: DefaultTimeout,
		},
		ValidationRules: []string{"require_valid_uri", "require_known_predicates"},
		PostProcessing:  PostProcessing{Deduplicate: true, NormalizeURIs: true},
	}
}

// ResolveType expands a type name to an absolute URI against the schema
// namespace. Names that are already absolute pass through unchanged.
func (s Schema) ResolveType(name string) string {
	if strings.HasPrefix(name, "http") {
		return name
	}
	return s.Namespace + name
}
