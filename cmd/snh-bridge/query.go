package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search processed documents",
	Long: `Query runs a free-text semantic search over documents the bridge has
already processed and prints the ranked matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	client, err := newBridgeClient(cmd)
	if err != nil {
		return err
	}

	resp, err := client.Query(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Results)
	}

	if len(resp.Results) == 0 {
		fmt.Println("No relevant matches found.")
		return nil
	}

	fmt.Println("Search results:")
	for i, r := range resp.Results {
		fmt.Printf("\n%d. %s (score %.2f)\n", i+1, r.Title, r.Score)
		fmt.Printf("   %s\n", r.Content)
		if r.Metadata.Source != "" {
			fmt.Printf("   source: %s  type: %s  uploaded: %s\n",
				r.Metadata.Source, r.Metadata.FileType, r.Metadata.UploadedAt)
		}
	}
	fmt.Printf("\n%d result(s)\n", len(resp.Results))
	return nil
}
