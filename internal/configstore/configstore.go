// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package configstore reads and writes the per-user credential file.
//
// The file lives at ~/.snh_bridge/config.ini with one recognized key:
//
//	[auth]
//	api_key = ...
//
// The file holds a secret, so Save keeps it owner-only at every point:
// the record is rendered into a 0600 temp file in the same directory and
// renamed over the target, leaving no window where the file is both
// present and readable by other users.
package configstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	configDirName  = ".snh_bridge"
	configFileName = "config.ini"

	authSection = "auth"
	apiKeyName  = "api_key"
)

// UnreadableError reports a config file that exists but cannot be parsed
// or opened.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("config file %s is unreadable: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Record is the parsed contents of the config file. Keys outside the
// recognized set are preserved across a Load/Save round trip.
type Record struct {
	file *ini.File
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{file: ini.Empty()}
}

// APIKey returns the stored API key, or "" when unset.
func (r *Record) APIKey() string {
	if r == nil || r.file == nil {
		return ""
	}
	return strings.TrimSpace(r.file.Section(authSection).Key(apiKeyName).String())
}

// SetAPIKey replaces the stored API key.
func (r *Record) SetAPIKey(key string) {
	if r.file == nil {
		r.file = ini.Empty()
	}
	r.file.Section(authSection).Key(apiKeyName).SetValue(key)
}

// Store reads and writes the config file at a fixed path.
type Store struct {
	Path string
}

// Default returns a Store rooted at ~/.snh_bridge/config.ini.
func Default() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Store{Path: filepath.Join(dir, configFileName)}, nil
}

// DefaultDir returns the per-user state directory, ~/.snh_bridge.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Load parses the config file. An absent file is not an error and yields
// an empty record; a file that exists but cannot be parsed yields an
// UnreadableError.
func (s *Store) Load() (*Record, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return NewRecord(), nil
		}
		return nil, &UnreadableError{Path: s.Path, Err: err}
	}

	f, err := ini.Load(s.Path)
	if err != nil {
		return nil, &UnreadableError{Path: s.Path, Err: err}
	}
	return &Record{file: f}, nil
}

// APIKey loads the config file and returns the stored key. It satisfies
// credential.Store.
func (s *Store) APIKey() (string, error) {
	rec, err := s.Load()
	if err != nil {
		return "", err
	}
	return rec.APIKey(), nil
}

// Save writes the record to the config path, creating the containing
// directory (0700) if needed. The record is rendered into a temp file in
// the same directory and renamed into place. os.CreateTemp creates the
// temp file 0600, so the secret is never world-readable, even if the
// process dies mid-write.
func (s *Store) Save(r *Record) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config-*.ini")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if r.file == nil {
		r.file = ini.Empty()
	}
	_, writeErr := r.file.WriteTo(tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp config file: %w", closeErr)
	}

	// The umask can only tighten CreateTemp's 0600; restate it so the
	// renamed file ends up exactly owner read/write.
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("restricting config permissions: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}
