package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Validating configuration...")

			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			fmt.Println("Configuration is valid!")
			fmt.Printf("Name: %s\n", cfg.Name)
			fmt.Printf("Version: %s\n", cfg.Version)
			fmt.Printf("Questions: %d\n", len(cfg.ExtractionQuestions))
			fmt.Printf("Namespace: %s\n", cfg.Schema.Namespace)
			fmt.Printf("Model: %s\n", cfg.LLM.Model)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
