package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richbodo/snh-bridge/internal/configstore"
	"github.com/richbodo/snh-bridge/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent upload attempts",
	Long: `History lists upload attempts recorded in the local ledger at
~/.snh_bridge/history.db, newest first. Both successful and failed
attempts appear.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, err := configstore.DefaultDir()
	if err != nil {
		return err
	}
	ledger, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := ledger.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No uploads recorded.")
		return nil
	}

	fmt.Printf("%-19s  %-6s  %-24s  %s\n", "When", "Status", "Document", "Path")
	for _, e := range entries {
		doc := e.DocumentID
		if doc == "" {
			doc = "-"
		}
		fmt.Printf("%-19s  %-6s  %-24s  %s\n",
			e.UploadedAt.Format("2006-01-02 15:04:05"), e.Status, doc, e.Path)
	}
	return nil
}
