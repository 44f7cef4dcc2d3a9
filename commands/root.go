// Package commands implements the kgraph CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/kgraph/config"
	"github.com/c360studio/kgraph/graph"
)

const defaultServerURL = "http://localhost:8000"

// NewRootCmd builds the kgraph command tree.
func NewRootCmd(version string) *cobra.Command {
	var (
		verbose bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "kgraph",
		Short: "Extract structured RDF triples from documents using LLM",
		Long: `kgraph extracts structured RDF triples from documents using an
OpenAI-compatible LLM server, stores them in a local knowledge graph,
and generates documents from templates over the stored graph.

Phase 1 (extract) turns documents into triples.
Phase 2 (generate) turns stored triples into reports.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose, debug)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		newExtractCmd(),
		newGenerateCmd(),
		newQueryCmd(),
		newStatsCmd(),
		newExportCmd(),
		newTemplatesCmd(),
		newValidateCmd(),
		newCheckServerCmd(),
		newInitCmd(),
		newVersionCmd(version),
	)

	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kgraph version %s\n", version)
		},
	}
}

// setupLogging routes slog to stderr at a level chosen by the flags.
// The default is warn so command output stays clean.
func setupLogging(verbose, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the knowledge graph named by kgPath using the
// selected backend.
func openStore(backend, kgPath string, schema config.Schema) (graph.Store, error) {
	switch backend {
	case "", "snapshot":
		cfg := graph.DefaultConfig()
		cfg.StoragePath = kgPath
		return graph.NewSnapshotStore(cfg, schema)
	case "badger":
		return graph.NewBadgerStore(kgPath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: snapshot, badger)", backend)
	}
}

// closeStore closes backends that hold resources.
func closeStore(store graph.Store) {
	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// minimalSchema is used by commands that open the graph without a
// configuration file.
func minimalSchema() config.Schema {
	return config.Schema{
		Namespace: "http://example.org/",
		Prefix:    "ex",
		BaseURI:   "http://example.org/resource/",
	}
}
