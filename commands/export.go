package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/export"
	"github.com/c360studio/kgraph/graph"
)

func newExportCmd() *cobra.Command {
	var (
		kgPath     string
		backend    string
		configPath string
		outputPath string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export knowledge graph to file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Exporting knowledge graph...")

			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}

			store, err := openStore(backend, kgPath, cfg.Schema)
			if err != nil {
				return err
			}
			defer closeStore(store)

			err = store.ExportToFile(outputPath, formatName)

			// The store's export path covers the common formats; the
			// serializer handles the rest (jsonld, rdfxml).
			var unsupported *graph.UnsupportedFormatError
			if errors.As(err, &unsupported) {
				err = exportViaSerializer(store, cfg, outputPath, formatName)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Export completed: %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&kgPath, "kg-path", "knowledge_graph.db", "Knowledge graph database path")
	cmd.Flags().StringVar(&backend, "backend", "snapshot", "Storage backend (snapshot, badger)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVarP(&formatName, "format", "f", "turtle", "Output format (turtle, jsonld, ntriples, rdfxml, json)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func exportViaSerializer(store graph.Store, cfg *config.Configuration, outputPath, formatName string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	serializer := export.NewSerializer(cfg.Schema.Namespace, cfg.Schema.Prefix)
	serialized, err := serializer.Serialize(store.Triples(), format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(serialized), 0644); err != nil {
		return fmt.Errorf("write export file %s: %w", outputPath, err)
	}
	return nil
}
