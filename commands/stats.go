package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
)

func newStatsCmd() *cobra.Command {
	var (
		kgPath     string
		backend    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := minimalSchema()
			if configPath != "" {
				cfg, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				schema = cfg.Schema
			}

			store, err := openStore(backend, kgPath, schema)
			if err != nil {
				return err
			}
			defer closeStore(store)

			fmt.Println(store.Stats())
			return nil
		},
	}

	cmd.Flags().StringVar(&kgPath, "kg-path", "knowledge_graph.db", "Knowledge graph database path")
	cmd.Flags().StringVar(&backend, "backend", "snapshot", "Storage backend (snapshot, badger)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")

	return cmd
}
