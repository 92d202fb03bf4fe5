// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bridge

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/richbodo/snh-bridge/internal/discover"
)

// Outcome records the result of one upload attempt in a batch run.
type Outcome struct {
	RelPath    string `json:"rel_path" yaml:"rel_path"`
	DocumentID string `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the upload succeeded.
func (o Outcome) OK() bool { return o.Error == "" }

// BatchResult aggregates per-file outcomes of a batch run. Every
// discovered file produces exactly one outcome, failures included.
type BatchResult struct {
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
	Outcomes  []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int { return r.Succeeded + r.Failed }

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// Recorder is notified after every upload attempt. Implementations must
// not fail the upload; recording problems are theirs to report.
type Recorder interface {
	RecordUpload(path string, resp *UploadResponse, err error)
}

// BatchOptions controls pacing and recording of a batch run.
type BatchOptions struct {
	// UploadDelay is the pause between consecutive uploads.
	UploadDelay time.Duration

	// Recorder receives each outcome. Nil disables recording.
	Recorder Recorder
}

// RunBatch uploads files sequentially in the given order, printing
// per-file status to w and recording one outcome per file. A failed
// upload does not stop the rest of the batch.
func RunBatch(ctx context.Context, client *Client, files []discover.File, opts BatchOptions, w io.Writer) BatchResult {
	var result BatchResult
	for i, f := range files {
		if i > 0 && opts.UploadDelay > 0 {
			time.Sleep(opts.UploadDelay)
		}

		fmt.Fprintf(w, "uploading: %s\n", f.RelPath)
		resp, err := client.Upload(ctx, f.Path)
		if opts.Recorder != nil {
			opts.Recorder.RecordUpload(f.Path, resp, err)
		}
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", f.RelPath, err)
			result.Failed++
			result.Outcomes = append(result.Outcomes, Outcome{RelPath: f.RelPath, Error: err.Error()})
			continue
		}

		fmt.Fprintf(w, "uploaded:  %s (document %s)\n", f.RelPath, resp.DocumentID)
		result.Succeeded++
		result.Outcomes = append(result.Outcomes, Outcome{RelPath: f.RelPath, DocumentID: resp.DocumentID})
	}

	fmt.Fprintf(w, "\nBatch summary: %d uploaded, %d failed (total: %d)\n",
		result.Succeeded, result.Failed, result.Total())
	for _, o := range result.Outcomes {
		if !o.OK() {
			fmt.Fprintf(w, "  failed: %s: %s\n", o.RelPath, o.Error)
		}
	}
	return result
}
