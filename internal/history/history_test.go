// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richbodo/snh-bridge/internal/bridge"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), ".snh_bridge"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerRoundTrip(t *testing.T) {
	l := openTestLedger(t)

	l.RecordUpload("/docs/a.pdf", &bridge.UploadResponse{DocumentID: "doc-1", Message: "processed"}, nil)
	l.RecordUpload("/docs/b.pdf", nil, errors.New("upload failed: HTTP 401: invalid API key"))

	entries, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "/docs/b.pdf", entries[0].Path)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Detail, "invalid API key")
	assert.Empty(t, entries[0].DocumentID)

	assert.Equal(t, "/docs/a.pdf", entries[1].Path)
	assert.Equal(t, StatusOK, entries[1].Status)
	assert.Equal(t, "doc-1", entries[1].DocumentID)
	assert.False(t, entries[1].UploadedAt.IsZero())
}

func TestLedgerRecentLimit(t *testing.T) {
	l := openTestLedger(t)

	for i := 0; i < 5; i++ {
		l.RecordUpload("/docs/file.pdf", &bridge.UploadResponse{DocumentID: "doc"}, nil)
	}

	entries, err := l.Recent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	all, err := l.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "non-positive limit falls back to the default")
}

func TestLedgerEmptyDatabase(t *testing.T) {
	l := openTestLedger(t)

	entries, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".snh_bridge")

	first, err := Open(dir)
	require.NoError(t, err)
	first.RecordUpload("/docs/a.pdf", &bridge.UploadResponse{DocumentID: "doc-1"}, nil)
	require.NoError(t, first.Close())

	second, err := Open(dir)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "entries survive reopening")
}
