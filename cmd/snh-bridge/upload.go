package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a PDF file for processing",
	Long: `Upload sends a single PDF to the bridge API and prints the server's
response. The file must exist and be readable; nothing is sent otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := newBridgeClient(cmd)
	if err != nil {
		return err
	}

	ledger := openLedger()
	if ledger != nil {
		defer ledger.Close()
	}

	resp, err := client.Upload(cmd.Context(), args[0])
	if ledger != nil {
		ledger.RecordUpload(args[0], resp, err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %s\n", args[0])
	fmt.Printf("  Document ID: %s\n", resp.DocumentID)
	if resp.Message != "" {
		fmt.Printf("  Message:     %s\n", resp.Message)
	}
	if resp.Metadata.Filename != "" {
		fmt.Printf("  Stored as:   %s (%d bytes, %s)\n",
			resp.Metadata.Filename, resp.Metadata.Size, resp.Metadata.ContentType)
	}
	return nil
}
