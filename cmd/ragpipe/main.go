// Command ragpipe runs the question-answering service: serve the HTTP API,
// ingest a document corpus, or answer a single question from the terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragpipe",
	Short: "Retrieval-augmented question answering over a document corpus",
	Long: `ragpipe answers questions grounded in an ingested document corpus.

It embeds the question, retrieves the most relevant chunks from the vector
store, and asks a language model to answer using only that context, reporting
a calibrated confidence alongside the answer and its sources.`,
	SilenceUsage: true,
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
