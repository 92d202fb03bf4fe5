// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// countingTransport records how many requests pass through it.
type countingTransport struct {
	calls int
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	if t.next == nil {
		return nil, fmt.Errorf("no transport configured")
	}
	return t.next.RoundTrip(req)
}

func testClient(ts *httptest.Server) *Client {
	return &Client{
		BaseURL:    ts.URL,
		APIKey:     "sk_test",
		UserAgent:  "snh-bridge/test",
		HTTPClient: ts.Client(),
	}
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 test content"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Upload ---

func TestUploadSendsAuthenticatedMultipart(t *testing.T) {
	var gotAuth, gotFilename, gotPartType, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload" {
			t.Errorf("request = %s %s, want POST /api/upload", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		f, fh, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotFilename = fh.Filename
		gotPartType = fh.Header.Get("Content-Type")
		data, _ := io.ReadAll(f)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true, "document_id": "doc-42", "message": "processed",
			"metadata": {"filename": "scan.pdf", "size": 21, "content_type": "application/pdf"}}`)
	}))
	defer ts.Close()

	path := writePDF(t, "scan.pdf")
	resp, err := testClient(ts).Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("Authorization = %q, want Bearer token", gotAuth)
	}
	if gotFilename != "scan.pdf" {
		t.Errorf("filename = %q, want scan.pdf", gotFilename)
	}
	if gotPartType != "application/pdf" {
		t.Errorf("part Content-Type = %q, want application/pdf", gotPartType)
	}
	if gotBody != "%PDF-1.4 test content" {
		t.Errorf("uploaded body = %q", gotBody)
	}

	if resp.DocumentID != "doc-42" {
		t.Errorf("DocumentID = %q, want doc-42", resp.DocumentID)
	}
	if resp.Metadata.Filename != "scan.pdf" || resp.Metadata.Size != 21 {
		t.Errorf("Metadata = %+v", resp.Metadata)
	}
}

func TestUploadMissingFileMakesNoRequest(t *testing.T) {
	transport := &countingTransport{}
	c := &Client{
		BaseURL:    "http://bridge.example",
		APIKey:     "sk_test",
		HTTPClient: &http.Client{Transport: transport},
	}

	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	var accessErr *FileAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("err = %v, want FileAccessError", err)
	}
	if transport.calls != 0 {
		t.Errorf("transport calls = %d, want 0 (fail fast, no partial request)", transport.calls)
	}
}

func TestUploadDirectoryPathMakesNoRequest(t *testing.T) {
	transport := &countingTransport{}
	c := &Client{
		BaseURL:    "http://bridge.example",
		APIKey:     "sk_test",
		HTTPClient: &http.Client{Transport: transport},
	}

	_, err := c.Upload(context.Background(), t.TempDir())

	var accessErr *FileAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("err = %v, want FileAccessError", err)
	}
	if transport.calls != 0 {
		t.Errorf("transport calls = %d, want 0", transport.calls)
	}
}

func TestUploadServerRejection(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "JSON error body yields the error field",
			status:     http.StatusUnauthorized,
			body:       `{"error": "invalid API key"}`,
			wantDetail: "invalid API key",
		},
		{
			name:       "non-JSON error body passes through verbatim",
			status:     http.StatusBadGateway,
			body:       "upstream exploded",
			wantDetail: "upstream exploded",
		},
		{
			name:       "2xx with success false is still a rejection",
			status:     http.StatusOK,
			body:       `{"success": false, "error": "unsupported file type"}`,
			wantDetail: "unsupported file type",
		},
		{
			name:       "2xx with non-JSON body is a rejection",
			status:     http.StatusOK,
			body:       "<html>login page</html>",
			wantDetail: "non-JSON body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := testClient(ts).Upload(context.Background(), writePDF(t, "doc.pdf"))

			var uploadErr *UploadError
			if !errors.As(err, &uploadErr) {
				t.Fatalf("err = %v, want UploadError", err)
			}
			if uploadErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", uploadErr.StatusCode, tt.status)
			}
			if !strings.Contains(uploadErr.ServerDetail, tt.wantDetail) {
				t.Errorf("ServerDetail = %q, want it to contain %q", uploadErr.ServerDetail, tt.wantDetail)
			}
		})
	}
}

// --- Query ---

func TestQuerySendsJSONAndParsesResults(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/query" {
			t.Errorf("request = %s %s, want POST /api/query", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": [
			{"title": "Safety Plan", "content": "evacuation routes", "score": 0.91,
			 "metadata": {"source": "plan.pdf", "file_type": "pdf", "uploaded_at": "2026-01-05", "file_size": 1024}},
			{"title": "Handbook", "content": "contact list", "score": 0.42, "metadata": {}}
		]}`)
	}))
	defer ts.Close()

	resp, err := testClient(ts).Query(context.Background(), "evacuation plan")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody != `{"query":"evacuation plan"}` {
		t.Errorf("request body = %s", gotBody)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	r0 := resp.Results[0]
	if r0.Title != "Safety Plan" || r0.Score != 0.91 {
		t.Errorf("Results[0] = %+v", r0)
	}
	if r0.Metadata.Source != "plan.pdf" || r0.Metadata.FileSize != 1024 {
		t.Errorf("Results[0].Metadata = %+v", r0.Metadata)
	}
}

func TestQueryServerRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": "vector index offline"}`)
	}))
	defer ts.Close()

	_, err := testClient(ts).Query(context.Background(), "anything")

	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("err = %v, want QueryError", err)
	}
	if queryErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", queryErr.StatusCode)
	}
	if queryErr.ServerDetail != "vector index offline" {
		t.Errorf("ServerDetail = %q, want the server-provided detail", queryErr.ServerDetail)
	}
}

// --- network failures ---

func TestQueryConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close() // nothing is listening anymore

	c := &Client{BaseURL: url, APIKey: "sk_test", HTTPClient: &http.Client{}}
	_, err := c.Query(context.Background(), "anything")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	if netErr.Kind != KindConnection {
		t.Errorf("Kind = %q, want %q", netErr.Kind, KindConnection)
	}

	// The taxonomy keeps transport failures distinct from server rejections.
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		t.Errorf("connection failure must not be a QueryError")
	}
}

func TestUploadTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	c := &Client{
		BaseURL:    ts.URL,
		APIKey:     "sk_test",
		HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
	}
	_, err := c.Upload(context.Background(), writePDF(t, "slow.pdf"))

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	if netErr.Kind != KindTimeout {
		t.Errorf("Kind = %q, want %q", netErr.Kind, KindTimeout)
	}
}

// fakeNetError implements net.Error for classification tests.
type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassifyTransportErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want NetworkKind
	}{
		{"DNS failure", &net.DNSError{Err: "no such host", Name: "bridge.invalid"}, KindDNS},
		{"wrapped DNS failure", fmt.Errorf("request: %w", &net.DNSError{Err: "no such host"}), KindDNS},
		{"context deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), KindTimeout},
		{"net.Error timeout", &fakeNetError{timeout: true}, KindTimeout},
		{"plain refusal", errors.New("connection refused"), KindConnection},
		{"net.Error non-timeout", &fakeNetError{}, KindConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportErr("http://bridge.example/api/query", tt.err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error should wrap the original")
			}
		})
	}
}
