package main

import (
	"github.com/spf13/cobra"

	"github.com/aqua777/go-ragpipe/ingestion"
)

var ingestDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest a document directory into the vector store",
	Args:  cobra.MaximumNArgs(1),
	Long: `Reads every supported file (.json, .txt, .md, .pdf) in the data
directory, splits the documents into overlapping chunks, embeds them, and
upserts the result into the configured vector store.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "document directory (defaults to INGESTION_DATA_DIR)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	dir := ingestDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = d.cfg.Ingestion.DataDir
	}

	splitter, err := ingestion.NewSplitter(d.cfg.Ingestion.ChunkSize, d.cfg.Ingestion.ChunkOverlap)
	if err != nil {
		return err
	}

	ing, err := ingestion.NewIngestor(d.embedder, d.store, ingestion.WithSplitter(splitter))
	if err != nil {
		return err
	}

	stats, err := ing.IngestDir(cmd.Context(), dir)
	if err != nil {
		return err
	}

	cmd.Printf("Ingested %d documents (%d chunks) from %s\n", stats.Documents, stats.Chunks, dir)
	return nil
}
