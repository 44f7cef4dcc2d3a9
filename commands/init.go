package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/kgraph/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate example configuration and templates",
	}

	cmd.AddCommand(newInitConfigCmd(), newInitTemplatesCmd())
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var (
		outputPath string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate example configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Generating example configuration...")

			cfg := config.Example()

			var (
				data []byte
				err  error
			)
			switch formatName {
			case "yaml":
				data, err = yaml.Marshal(cfg)
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
			default:
				return fmt.Errorf("unknown config format: %s (supported: yaml, json)", formatName)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("write config file %s: %w", outputPath, err)
			}

			fmt.Printf("Example configuration generated at: %s\n", outputPath)
			fmt.Println("Edit the file to customize for your use case")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for configuration file")
	cmd.Flags().StringVarP(&formatName, "format", "f", "yaml", "Configuration format (yaml or json)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

const companyReportTemplate = `id: "company_report"
name: "Company Report"
description: "Generate a comprehensive report about companies and their employees"
template_type: "report"
data_queries:
  - id: "companies"
    description: "Get all companies with their basic information"
    sparql_query: "SELECT ?name ?entity WHERE { ?entity ex:hasName ?name }"
    required: true

  - id: "people_roles"
    description: "Get people and their roles in companies"
    sparql_query: "SELECT ?role ?person WHERE { ?person ex:hasRole ?role }"
    required: false

template_content: |
  # Company Report

  ## Companies Overview
  {{range .companies}}
  ### {{.name}}
  {{end}}

  ## People and Roles
  {{range .people_roles}}
  - **{{.person}}**{{if .role}} - {{.role}}{{end}}
  {{end}}

output_format: "markdown"
llm_instructions: "Enhance the report with professional language and clear structure"
post_processing:
  enhance_with_llm: true
  style_guide: "Professional business report style"
  include_sources: true
`

const executiveSummaryTemplate = `id: "executive_summary"
name: "Executive Summary"
description: "Generate an executive summary from company data"
template_type: "summary"
data_queries:
  - id: "key_metrics"
    description: "Get all stored facts for summarization"
    sparql_query: "SELECT ?subject ?predicate ?object WHERE { ?subject ?predicate ?object }"
    required: true

template_content: |
  # Executive Summary

  ## Key Business Insights
  {{range .key_metrics}}
  - **{{.subject}}** {{.predicate}} **{{.object}}**
  {{end}}

  ## Strategic Overview
  *This section will be enhanced by the LLM to provide strategic insights based on the extracted data.*

output_format: "markdown"
llm_instructions: "Create a strategic executive summary with insights about business relationships, leadership, and growth opportunities. Write in a professional, executive-level tone."
post_processing:
  enhance_with_llm: true
  style_guide: "Executive-level strategic communication"
  word_limit: 500
  include_sources: false
`

func newInitTemplatesCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Generate example templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Generating example templates...")

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("create template directory %s: %w", outputDir, err)
			}

			files := map[string]string{
				"company_report.yaml":    companyReportTemplate,
				"executive_summary.yaml": executiveSummaryTemplate,
			}

			fmt.Println("Generated example templates:")
			for name, content := range files {
				path := filepath.Join(outputDir, name)
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					return fmt.Errorf("write template %s: %w", path, err)
				}
				fmt.Printf("  %s\n", path)
			}
			fmt.Println("Edit these templates to customize for your use case")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "templates", "Output directory for templates")

	return cmd
}
