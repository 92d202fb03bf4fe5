// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the snh-bridge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/richbodo/snh-bridge/internal/bridge"
	"github.com/richbodo/snh-bridge/internal/configstore"
	"github.com/richbodo/snh-bridge/internal/credential"
	"github.com/richbodo/snh-bridge/internal/history"
	"github.com/richbodo/snh-bridge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultBaseURL   = "https://vector-knowledge-base-RichBodo.replit.app"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "snh-bridge/0.1"
)

// rootCmd is the base command for the snh-bridge CLI.
var rootCmd = &cobra.Command{
	Use:   "snh-bridge",
	Short: "Client for the SNH Bridge document-processing API",
	Long: `snh-bridge uploads PDF documents to the SNH Bridge API, searches
previously processed documents, and manages the API key used for
Bearer-token authentication.

The API key is resolved per invocation: --api-key wins, then the
SNH_BRIDGE_API_KEY environment variable, then ~/.snh_bridge/config.ini
(written by "snh-bridge configure"). Operational settings such as the
base URL and timeout come from flags, SNH_BRIDGE_* environment
variables, or an optional snh-bridge.yaml config file.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./snh-bridge.yaml or ~/.config/snh-bridge/config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "bridge API base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().String("api-key", "", "API key for this invocation (overrides environment and config file)")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("snh-bridge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "snh-bridge"))
		}
	}

	viper.SetEnvPrefix("SNH_BRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bridgeConfig assembles the client configuration from flags, environment,
// and the optional yaml config file.
func bridgeConfig() types.BridgeConfig {
	baseURL := viper.GetString("base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return types.BridgeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL: baseURL,
	}
}

// resolveAPIKey applies the fixed credential precedence for this invocation:
// --api-key, then SNH_BRIDGE_API_KEY, then the config file.
func resolveAPIKey(cmd *cobra.Command) (string, error) {
	explicit, _ := cmd.Flags().GetString("api-key")
	store, err := configstore.Default()
	if err != nil {
		return "", err
	}
	return credential.Resolve(explicit, os.Getenv, store)
}

// newBridgeClient resolves the credential and builds the API client.
func newBridgeClient(cmd *cobra.Command) (*bridge.Client, error) {
	key, err := resolveAPIKey(cmd)
	if err != nil {
		return nil, err
	}
	return bridge.New(bridgeConfig(), key), nil
}

// openLedger opens the upload history ledger. History is best-effort:
// a failure degrades to a stderr warning and a nil ledger.
func openLedger() *history.Ledger {
	dir, err := configstore.DefaultDir()
	if err == nil {
		l, openErr := history.Open(dir)
		if openErr == nil {
			return l
		}
		err = openErr
	}
	fmt.Fprintf(os.Stderr, "warning: upload history disabled: %v\n", err)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
