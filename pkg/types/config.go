// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "snh-bridge/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BridgeConfig holds settings for the bridge API client.
type BridgeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the bridge API endpoint, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// BatchConfig holds settings for batch uploads.
type BatchConfig struct {
	// UploadDelay is the delay between consecutive uploads.
	UploadDelay time.Duration `json:"upload_delay" yaml:"upload_delay"`

	// ConfirmThreshold is the file count above which batch asks for
	// confirmation before uploading (default 10).
	ConfirmThreshold int `json:"confirm_threshold" yaml:"confirm_threshold"`
}
