// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/internal/chunkstore"
	"github.com/pdiddy/content-engine/pkg/types"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Manage the corpus chunk index (ingest, retrieve, export)",
	Long: `Chunks manages the local SQLite index the retriever queries. Documents
are chunked outside this system; ingest is the write path for prepared
chunk files. Two collections are recognized: brand_voice and
product_docs.`,
}

// --- ingest subcommand ---

var chunksIngestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest prepared chunks from a YAML file into a collection",
	Long: `Ingest reads a YAML file containing a list of chunks (id, text, source)
and upserts them into the named collection. Re-ingesting a file updates
chunks in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunksIngest,
}

func runChunksIngest(cmd *cobra.Command, args []string) error {
	collection, err := collectionFlag(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading chunk file: %w", err)
	}
	var chunks []types.SourceChunk
	if err := yaml.Unmarshal(data, &chunks); err != nil {
		return fmt.Errorf("parsing chunk file: %w", err)
	}
	for i, c := range chunks {
		if c.ID == "" || c.Text == "" {
			return fmt.Errorf("chunk %d: id and text are required", i)
		}
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ingest(context.Background(), collection, chunks); err != nil {
		return err
	}

	total, err := store.Count(context.Background(), collection)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d chunk(s); %s now holds %d\n", len(chunks), collection, total)
	return nil
}

// --- retrieve subcommand ---

var chunksRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query a collection with full-text search",
	Long: `Retrieve runs the same similarity query the pipeline's retriever uses.
An empty or missing index degrades to the built-in fallback chunks, just
as a pipeline run would.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChunksRetrieve,
}

func runChunksRetrieve(cmd *cobra.Command, args []string) error {
	collection, err := collectionFlag(cmd)
	if err != nil {
		return err
	}
	topK, _ := cmd.Flags().GetInt("top-k")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	results := store.Search(context.Background(), query, collection, topK)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		text := r.Text
		if len(text) > 100 {
			text = text[:97] + "..."
		}
		fmt.Printf("%-4d  %-20s  %s\n", i+1, r.ID, text)
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var chunksExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a collection to YAML or JSON on stdout",
	RunE:  runChunksExport,
}

func runChunksExport(cmd *cobra.Command, args []string) error {
	collection, err := collectionFlag(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	chunks, err := store.Dump(context.Background(), collection)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(chunks)
		if err != nil {
			return fmt.Errorf("encoding chunks: %w", err)
		}
		os.Stdout.Write(data)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*chunkstore.Store, error) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = viper.GetString("chunk_store.index_dir")
	}
	store, err := chunkstore.Open(types.ChunkStoreConfig{
		IndexDir: indexDir,
		TopK:     viper.GetInt("chunk_store.top_k"),
	})
	if err != nil {
		return nil, fmt.Errorf("opening chunk store: %w", err)
	}
	return store, nil
}

func collectionFlag(cmd *cobra.Command) (string, error) {
	collection, _ := cmd.Flags().GetString("collection")
	switch collection {
	case chunkstore.CollectionBrandVoice, chunkstore.CollectionProductDocs:
		return collection, nil
	}
	return "", fmt.Errorf("unknown collection %q: use %s or %s",
		collection, chunkstore.CollectionBrandVoice, chunkstore.CollectionProductDocs)
}

func init() {
	chunksCmd.PersistentFlags().String("collection", chunkstore.CollectionBrandVoice, "target collection: brand_voice or product_docs")
	chunksCmd.PersistentFlags().String("index-dir", "", "chunk index directory (default corpus/index)")

	chunksRetrieveCmd.Flags().Int("top-k", 0, "maximum results (0 = configured default)")
	chunksRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	chunksExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	chunksCmd.AddCommand(chunksIngestCmd)
	chunksCmd.AddCommand(chunksRetrieveCmd)
	chunksCmd.AddCommand(chunksExportCmd)

	rootCmd.AddCommand(chunksCmd)
}
