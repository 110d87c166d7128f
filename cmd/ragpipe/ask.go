package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	payload, err := d.pipeline.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(payload.Answer)
	cmd.Println()
	if len(payload.Sources) > 0 {
		cmd.Printf("Sources: %s\n", strings.Join(payload.Sources, ", "))
	}
	cmd.Printf("Confidence: %.2f\n", payload.Confidence)
	return nil
}
