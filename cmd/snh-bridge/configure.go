package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richbodo/snh-bridge/internal/configstore"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save the API key to the per-user config file",
	Long: `Configure stores the API key in ~/.snh_bridge/config.ini with
owner-only permissions (0600). Subsequent commands read the key from
there unless --api-key or SNH_BRIDGE_API_KEY overrides it.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().String("api-key", "", "API key for authentication")
	configureCmd.MarkFlagRequired("api-key")

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("api-key")
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("--api-key must not be empty")
	}

	store, err := configstore.Default()
	if err != nil {
		return err
	}

	// Configure is the recovery path for a corrupt config file, so an
	// unreadable file is replaced rather than surfaced.
	rec, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: replacing unreadable config: %v\n", err)
		rec = configstore.NewRecord()
	}
	rec.SetAPIKey(key)

	if err := store.Save(rec); err != nil {
		return err
	}
	fmt.Printf("API key saved to %s\n", store.Path)
	return nil
}
