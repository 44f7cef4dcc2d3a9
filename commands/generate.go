package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/llm"
	"github.com/c360studio/kgraph/template"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath   string
		kgPath       string
		backend      string
		templatePath string
		templateID   string
		outputPath   string
		serverURL    string
		apiKey       string
		model        string
		contextJSON  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documents from templates using knowledge graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Starting document generation...")

			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			applyOverrides(cfg, serverURL, apiKey, model)

			client, err := llm.NewClient(cfg.LLM)
			if err != nil {
				return err
			}

			store, err := openStore(backend, kgPath, cfg.Schema)
			if err != nil {
				return err
			}
			defer closeStore(store)

			manager := template.NewManager(store, client, nil)

			info, err := os.Stat(templatePath)
			if err != nil {
				return fmt.Errorf("template path %s: %w", templatePath, err)
			}

			if info.IsDir() {
				if _, err := manager.LoadDirectory(templatePath); err != nil {
					return err
				}
				if templateID == "" {
					return fmt.Errorf("template ID required when template path is a directory")
				}
			} else {
				if err := manager.LoadTemplate(templatePath); err != nil {
					return err
				}
				if templateID == "" {
					base := filepath.Base(templatePath)
					templateID = strings.TrimSuffix(base, filepath.Ext(base))
				}
			}

			var extraContext map[string]any
			if contextJSON != "" {
				if err := json.Unmarshal([]byte(contextJSON), &extraContext); err != nil {
					return fmt.Errorf("parse --context JSON: %w", err)
				}
			}

			fmt.Printf("Template: %s\n", templateID)
			fmt.Printf("Knowledge graph: %s\n", kgPath)

			generated, err := manager.Generate(cmd.Context(), &template.GenerationRequest{
				TemplateID: templateID,
				Context:    extraContext,
				OutputPath: outputPath,
			})
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(generated.GeneratedContent), 0644); err != nil {
					return fmt.Errorf("write generated document: %w", err)
				}
				fmt.Printf("Generated document saved to: %s\n", outputPath)
			} else {
				fmt.Println("\nGenerated Document:")
				fmt.Println(generated.GeneratedContent)
			}

			fmt.Println("\nGeneration Metadata:")
			fmt.Printf("Word count: %d\n", generated.Metadata.WordCount)
			fmt.Printf("Processing time: %.2fs\n", generated.Metadata.ProcessingTimeSeconds)
			fmt.Printf("Queries executed: %d\n", len(generated.Metadata.QueriesExecuted))

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&kgPath, "kg-path", "knowledge_graph.db", "Knowledge graph database path")
	cmd.Flags().StringVar(&backend, "backend", "snapshot", "Storage backend (snapshot, badger)")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template file or directory")
	cmd.Flags().StringVar(&templateID, "template-id", "", "Template ID to use (required if template is directory)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&serverURL, "server-url", defaultServerURL, "LLM server URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for LLM server")
	cmd.Flags().StringVar(&model, "model", "", "Model to use (overrides config)")
	cmd.Flags().StringVar(&contextJSON, "context", "", "Additional context as JSON")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
