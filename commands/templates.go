package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/graph"
	"github.com/c360studio/kgraph/template"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage document templates",
	}

	cmd.AddCommand(newTemplatesListCmd())
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	var templateDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Available Templates")

			if _, err := os.Stat(templateDir); err != nil {
				fmt.Printf("Template directory not found: %s\n", templateDir)
				return nil
			}

			// Listing needs no store or LLM access.
			store := graph.NewInMemoryStore(minimalSchema())
			manager := template.NewManager(store, nil, nil)

			count, err := manager.LoadDirectory(templateDir)
			if err != nil {
				fmt.Printf("Failed to load templates: %v\n", err)
				return nil
			}

			fmt.Printf("Found %d templates in %s\n", count, templateDir)
			for _, tmpl := range manager.List() {
				fmt.Printf("\n%s (%s)\n", tmpl.Name, tmpl.ID)
				fmt.Printf("   Type: %s\n", tmpl.TemplateType)
				fmt.Printf("   Description: %s\n", tmpl.Description)
				fmt.Printf("   Queries: %d\n", len(tmpl.DataQueries))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateDir, "template-dir", "t", "templates", "Template directory")

	return cmd
}
