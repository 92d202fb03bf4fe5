// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credential resolves the bridge API key for one invocation.
//
// The key can come from three sources, consulted in fixed priority order:
// a value passed explicitly on the command line, the SNH_BRIDGE_API_KEY
// environment variable, and the per-user config file. Resolution has no
// side effects and never echoes the key.
package credential

import (
	"errors"
	"fmt"
	"strings"
)

// EnvVar is the environment variable consulted as the second credential source.
const EnvVar = "SNH_BRIDGE_API_KEY"

// ErrMissing indicates that no credential source yielded a non-empty API key.
var ErrMissing = errors.New("API key not found")

// Store supplies the config-file credential, the lowest-priority source.
type Store interface {
	// APIKey returns the stored key, or "" when the config file is
	// absent or holds no key.
	APIKey() (string, error)
}

// Resolve returns the API key for this invocation. Priority is fixed:
// the explicit command-line value wins, then the environment variable,
// then the config file. A nil getenv or store skips that source.
func Resolve(explicit string, getenv func(string) string, store Store) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}

	if getenv != nil {
		if v := strings.TrimSpace(getenv(EnvVar)); v != "" {
			return v, nil
		}
	}

	if store != nil {
		key, err := store.APIKey()
		if err != nil {
			return "", err
		}
		if v := strings.TrimSpace(key); v != "" {
			return v, nil
		}
	}

	return "", fmt.Errorf("%w: pass --api-key, set %s, or run \"snh-bridge configure\"", ErrMissing, EnvVar)
}
