package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/export"
	"github.com/c360studio/kgraph/extract"
	"github.com/c360studio/kgraph/llm"
)

func newExtractCmd() *cobra.Command {
	var (
		configPath string
		inputs     []string
		kgPath     string
		backend    string
		outputPath string
		formatName string
		serverURL  string
		apiKey     string
		model      string
		merge      bool
		validate   bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract RDF triples from documents and store in knowledge graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Starting RDF extraction...")

			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			applyOverrides(cfg, serverURL, apiKey, model)

			fmt.Printf("Configuration: %s\n", cfg.Name)
			fmt.Printf("Questions: %d\n", len(cfg.ExtractionQuestions))
			fmt.Printf("Documents: %d\n", len(inputs))

			client, err := llm.NewClient(cfg.LLM)
			if err != nil {
				return err
			}

			if err := client.CheckHealth(cmd.Context()); err != nil {
				return fmt.Errorf("LLM server health check failed: %w", err)
			}
			fmt.Println("LLM server is healthy")

			store, err := openStore(backend, kgPath, cfg.Schema)
			if err != nil {
				return err
			}
			defer closeStore(store)

			extractor := extract.New(cfg, client)

			results, err := extractor.ExtractAll(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			hasErrors := false
			for _, result := range results {
				if len(result.Errors) > 0 {
					hasErrors = true
					fmt.Fprintf(os.Stderr, "Errors in %s: %s\n",
						result.DocumentSource, strings.Join(result.Errors, ", "))
				}
			}

			if merge && len(results) > 1 {
				fmt.Println("Merging results...")
				merged, err := extractor.MergeResults(results)
				if err != nil {
					return err
				}
				results = []*extract.Result{merged}
			}

			if validate {
				for _, result := range results {
					if issues := export.ValidateTriples(result.Triples); len(issues) > 0 {
						fmt.Fprintf(os.Stderr, "Validation issues in %s: %s\n",
							result.DocumentSource, strings.Join(issues, ", "))
					}
				}
			}

			totalStored := 0
			for _, result := range results {
				stored, err := store.AddTriples(result.Triples)
				if err != nil {
					return err
				}
				totalStored += stored
			}
			fmt.Printf("Stored %d triples in knowledge graph: %s\n", totalStored, kgPath)

			if outputPath != "" {
				if err := writeExports(results, outputPath, formatName, cfg, merge); err != nil {
					return err
				}
			}

			totalTriples := 0
			totalTime := 0.0
			for _, result := range results {
				totalTriples += len(result.Triples)
				totalTime += result.ProcessingTimeSeconds
			}

			fmt.Println("\nExtraction Summary")
			fmt.Printf("Total triples extracted: %d\n", totalTriples)
			fmt.Printf("Total processing time: %.2fs\n", totalTime)

			if hasErrors {
				fmt.Println("Extraction completed with some errors")
			} else {
				fmt.Println("Extraction completed successfully!")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "Input documents or URLs")
	cmd.Flags().StringVar(&kgPath, "kg-path", "knowledge_graph.db", "Knowledge graph database path")
	cmd.Flags().StringVar(&backend, "backend", "snapshot", "Storage backend (snapshot, badger)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also export triples to file")
	cmd.Flags().StringVarP(&formatName, "format", "f", "turtle", "Output format for export")
	cmd.Flags().StringVar(&serverURL, "server-url", defaultServerURL, "LLM server URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for LLM server")
	cmd.Flags().StringVar(&model, "model", "", "Model to use (overrides config)")
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge results from multiple documents")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate extracted triples")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// applyOverrides folds command-line LLM overrides into the loaded
// configuration.
func applyOverrides(cfg *config.Configuration, serverURL, apiKey, model string) {
	if serverURL != defaultServerURL && serverURL != "" {
		cfg.LLM.BaseURL = serverURL
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = defaultServerURL
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if model != "" {
		cfg.LLM.Model = model
	}
}

// writeExports serializes each result to the output path. Multiple
// unmerged results get a numeric suffix per file.
func writeExports(results []*extract.Result, outputPath, formatName string, cfg *config.Configuration, merged bool) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	serializer := export.NewSerializer(cfg.Schema.Namespace, cfg.Schema.Prefix)

	for i, result := range results {
		serialized, err := serializer.Serialize(result.Triples, format)
		if err != nil {
			return err
		}

		path := outputPath
		if len(results) > 1 && !merged {
			ext := filepath.Ext(outputPath)
			stem := strings.TrimSuffix(outputPath, ext)
			path = fmt.Sprintf("%s_%d%s", stem, i+1, ext)
		}

		if err := os.WriteFile(path, []byte(serialized), 0644); err != nil {
			return fmt.Errorf("write export file %s: %w", path, err)
		}
		fmt.Printf("Export written to: %s\n", path)
	}
	return nil
}
