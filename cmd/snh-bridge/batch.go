package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/richbodo/snh-bridge/internal/bridge"
	"github.com/richbodo/snh-bridge/internal/discover"
	"github.com/richbodo/snh-bridge/pkg/types"
)

// defaultConfirmThreshold is the file count above which batch prompts
// before uploading.
const defaultConfirmThreshold = 10

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Upload every PDF under a directory",
	Long: `Batch recursively discovers PDF files under the directory
(case-insensitive .pdf match, lexical order), uploads them one at a
time, and prints a summary. A failed file does not stop the rest of
the batch.

More than ten files prompts for confirmation; pass --yes to skip.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Bool("yes", false, "skip the confirmation prompt for large batches")
	batchCmd.Flags().Duration("delay", 0, "delay between consecutive uploads")
	batchCmd.Flags().String("report", "", "write the per-file results to a YAML file")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	client, err := newBridgeClient(cmd)
	if err != nil {
		return err
	}

	files, err := discover.FindPDFs(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found under %s", args[0])
	}

	fmt.Printf("Found %d PDF file(s) to upload:\n", len(files))
	for _, f := range files {
		fmt.Printf("  %s\n", f.RelPath)
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	batchCfg := types.BatchConfig{
		UploadDelay:      delay,
		ConfirmThreshold: defaultConfirmThreshold,
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if len(files) > batchCfg.ConfirmThreshold && !yes {
		ok, err := confirm(cmd.InOrStdin(), os.Stderr, fmt.Sprintf("Upload %d files?", len(files)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Upload cancelled")
			return nil
		}
	}

	opts := bridge.BatchOptions{UploadDelay: batchCfg.UploadDelay}

	ledger := openLedger()
	if ledger != nil {
		defer ledger.Close()
		opts.Recorder = ledger
	}

	result := bridge.RunBatch(cmd.Context(), client, files, opts, os.Stdout)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := writeReport(result, reportPath); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", reportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to upload", result.Failed)
	}
	return nil
}

// confirm prints prompt to out and reads a y/N answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// writeReport serializes the batch result to a YAML file.
func writeReport(result bridge.BatchResult, path string) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling batch report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch report: %w", err)
	}
	return nil
}
