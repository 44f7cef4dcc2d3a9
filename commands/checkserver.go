package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/llm"
)

func newCheckServerCmd() *cobra.Command {
	var (
		serverURL string
		apiKey    string
	)

	cmd := &cobra.Command{
		Use:   "check-server",
		Short: "Check LLM server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Checking LLM server...")

			client, err := llm.NewClient(config.LLMSettings{
				BaseURL:        serverURL,
				APIKey:         apiKey,
				Model:          "test",
				Temperature:    config.DefaultTemperature,
				MaxTokens:      1024,
				TimeoutSeconds: 30,
			})
			if err != nil {
				return err
			}

			if err := client.CheckHealth(cmd.Context()); err != nil {
				fmt.Printf("Server is not responding at %s: %v\n", serverURL, err)
				return nil
			}
			fmt.Printf("Server is healthy at %s\n", serverURL)

			models, err := client.ListModels(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Could not list models: %v\n", err)
				return nil
			}

			fmt.Println("Available models:")
			for _, model := range models {
				fmt.Printf("  - %s\n", model)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server-url", defaultServerURL, "LLM server URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for LLM server")

	return cmd
}
