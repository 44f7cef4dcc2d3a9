package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/kgraph/config"
)

const minimalYAML = `name: Test Config
version: "1.0"
extraction_questions:
  - id: org_name
    question: What organizations are mentioned?
rdf_schema:
  namespace: http://example.org/ontology#
  prefix: ex
  base_uri: http://example.org/resource/
llm_settings:
  base_url: http://localhost:8000
  model: test-model
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	cfg, err := config.LoadFromFile(writeConfig(t, "config.yaml", minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "Test Config", cfg.Name)
	require.Len(t, cfg.ExtractionQuestions, 1)
	assert.Equal(t, "org_name", cfg.ExtractionQuestions[0].ID)
	assert.Equal(t, "http://example.org/ontology#", cfg.Schema.Namespace)
	assert.Equal(t, "test-model", cfg.LLM.Model)
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := config.LoadFromFile(writeConfig(t, "config.yaml", minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTemperature, cfg.LLM.Temperature)
	assert.Equal(t, config.DefaultMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, config.DefaultTimeout, cfg.LLM.TimeoutSeconds)
	assert.True(t, cfg.PostProcessing.Deduplicate)
	assert.True(t, cfg.PostProcessing.NormalizeURIs)
}

func TestLoadFromFile_ExplicitValuesOverrideDefaults(t *testing.T) {
	content := minimalYAML + `  temperature: 0.7
  max_tokens: 512
`
	cfg, err := config.LoadFromFile(writeConfig(t, "config.yaml", content))
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
}

func TestLoadFromFile_JSONByExtension(t *testing.T) {
	content := `{
  "name": "JSON Config",
  "extraction_questions": [{"id": "q1", "question": "What?"}],
  "rdf_schema": {"namespace": "http://example.org/ontology#", "prefix": "ex", "base_uri": "http://example.org/resource/"},
  "llm_settings": {"base_url": "http://localhost:8000", "model": "m"}
}`
	cfg, err := config.LoadFromFile(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	assert.Equal(t, "JSON Config", cfg.Name)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_Malformed(t *testing.T) {
	_, err := config.LoadFromFile(writeConfig(t, "bad.yaml", "{{{not yaml"))
	assert.Error(t, err)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := config.Example()
	require.NoError(t, original.SaveToFile(path))

	loaded, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Schema, loaded.Schema)
	assert.Equal(t, original.ValidationRules, loaded.ValidationRules)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Configuration)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *config.Configuration) {},
		},
		{
			name: "no questions",
			mutate: func(c *config.Configuration) {
				c.ExtractionQuestions = nil
			},
			wantErr: "no extraction questions",
		},
		{
			name: "missing base uri",
			mutate: func(c *config.Configuration) {
				c.Schema.BaseURI = ""
			},
			wantErr: "no base URI",
		},
		{
			name: "question without id",
			mutate: func(c *config.Configuration) {
				c.ExtractionQuestions[0].ID = ""
			},
			wantErr: "question missing ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Example()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExample_IsValid(t *testing.T) {
	assert.NoError(t, config.Example().Validate())
}

func TestSchema_ResolveType(t *testing.T) {
	schema := config.Schema{Namespace: "http://example.org/ontology#"}

	assert.Equal(t, "http://example.org/ontology#Person", schema.ResolveType("Person"))
	assert.Equal(t, "http://other.org/Thing", schema.ResolveType("http://other.org/Thing"))
}
