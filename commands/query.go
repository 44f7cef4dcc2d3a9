package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/graph"
)

func newQueryCmd() *cobra.Command {
	var (
		kgPath     string
		backend    string
		query      string
		queryFile  string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the knowledge graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			queryString := query
			if queryString == "" {
				if queryFile == "" {
					return fmt.Errorf("either --query or --file must be provided")
				}
				data, err := os.ReadFile(queryFile)
				if err != nil {
					return fmt.Errorf("read query file: %w", err)
				}
				queryString = string(data)
			}

			store, err := openStore(backend, kgPath, minimalSchema())
			if err != nil {
				return err
			}
			defer closeStore(store)

			result, err := store.Query(queryString)
			if err != nil {
				return err
			}

			switch formatName {
			case "table":
				fmt.Println("Query Results:")
				displayTable(result)
			case "json":
				fmt.Println("Query Results (JSON):")
				if err := displayJSON(result); err != nil {
					return err
				}
			case "csv":
				fmt.Println("Query Results (CSV):")
				displayCSV(result)
			case "turtle":
				fmt.Println("Query Results (Turtle):")
				displayTurtle(result)
			default:
				return fmt.Errorf("unknown output format: %s (supported: table, json, csv, turtle)", formatName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kgPath, "kg-path", "knowledge_graph.db", "Knowledge graph database path")
	cmd.Flags().StringVar(&backend, "backend", "snapshot", "Storage backend (snapshot, badger)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string")
	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "Query file")
	cmd.Flags().StringVar(&formatName, "format", "table", "Output format (table, json, csv, turtle)")

	return cmd
}

// solutionHeaders collects the union of variable names across all
// solutions, sorted so output is stable.
func solutionHeaders(solutions []map[string]string) []string {
	seen := make(map[string]struct{})
	for _, solution := range solutions {
		for variable := range solution {
			seen[variable] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for variable := range seen {
		headers = append(headers, variable)
	}
	sort.Strings(headers)
	return headers
}

func displayTable(result graph.QueryResult) {
	if result.Kind == graph.KindBoolean {
		if result.Boolean {
			fmt.Println("Result: TRUE")
		} else {
			fmt.Println("Result: FALSE")
		}
		return
	}

	headers := solutionHeaders(result.Solutions)
	fmt.Println(strings.Join(headers, " | "))
	fmt.Println(strings.Repeat("-", len(headers)*20))

	for _, solution := range result.Solutions {
		values := make([]string, len(headers))
		for i, header := range headers {
			values[i] = solution[header]
		}
		fmt.Println(strings.Join(values, " | "))
	}
}

func displayJSON(result graph.QueryResult) error {
	var payload any
	if result.Kind == graph.KindBoolean {
		payload = map[string]bool{"result": result.Boolean}
	} else {
		rows := result.Solutions
		if rows == nil {
			rows = []map[string]string{}
		}
		payload = rows
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func displayCSV(result graph.QueryResult) {
	if result.Kind == graph.KindBoolean {
		fmt.Printf("result\n%t\n", result.Boolean)
		return
	}

	headers := solutionHeaders(result.Solutions)
	fmt.Println(strings.Join(headers, ","))

	for _, solution := range result.Solutions {
		values := make([]string, len(headers))
		for i, header := range headers {
			value := solution[header]
			if strings.Contains(value, ",") {
				value = `"` + value + `"`
			}
			values[i] = value
		}
		fmt.Println(strings.Join(values, ","))
	}
}

// displayTurtle renders solutions as Turtle comments. Bindings are not
// triples, so this is a commented listing, not parseable Turtle.
func displayTurtle(result graph.QueryResult) {
	if result.Kind == graph.KindBoolean {
		fmt.Printf("# Boolean result: %t\n", result.Boolean)
		return
	}

	fmt.Println("# Query solutions as Turtle-like format")
	headers := solutionHeaders(result.Solutions)
	for _, solution := range result.Solutions {
		for _, variable := range headers {
			if value, ok := solution[variable]; ok {
				fmt.Printf("# %s: %s\n", variable, value)
			}
		}
		fmt.Println()
	}
}
