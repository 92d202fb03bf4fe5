// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bridge is the HTTP client for the SNH Bridge document API.
//
// Every request carries the API key as a Bearer token. The client makes
// no retry attempts of its own: a failed request surfaces immediately,
// and batch runs isolate failures per file instead.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/richbodo/snh-bridge/pkg/types"
)

const (
	uploadPath = "/api/upload"
	queryPath  = "/api/query"

	pdfContentType  = "application/pdf"
	jsonContentType = "application/json"
)

// Client issues authenticated requests against the bridge API.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

// New builds a Client from cfg and the resolved API key.
func New(cfg types.BridgeConfig, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:     apiKey,
		UserAgent:  cfg.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// UploadMetadata echoes the stored file attributes back from the server.
type UploadMetadata struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// UploadResponse is the server's reply to an upload.
type UploadResponse struct {
	Success     bool           `json:"success"`
	DocumentID  string         `json:"document_id"`
	Message     string         `json:"message"`
	Metadata    UploadMetadata `json:"metadata"`
	ErrorDetail string         `json:"error"`
}

// QueryResultMetadata describes the document a query match came from.
type QueryResultMetadata struct {
	Source     string `json:"source"`
	FileType   string `json:"file_type"`
	UploadedAt string `json:"uploaded_at"`
	FileSize   int64  `json:"file_size"`
}

// QueryResult is one ranked match from a document query.
type QueryResult struct {
	Title    string              `json:"title"`
	Content  string              `json:"content"`
	Score    float64             `json:"score"`
	Metadata QueryResultMetadata `json:"metadata"`
}

// QueryResponse is the server's reply to a query.
type QueryResponse struct {
	Results     []QueryResult `json:"results"`
	ErrorDetail string        `json:"error"`
}

// Upload sends the PDF at path to the bridge as a multipart/form-data
// POST, form field "file", part content type application/pdf. The file
// must be readable before any request is attempted; an unreadable path
// yields a FileAccessError with zero network calls. The body is streamed
// through an io.Pipe, so large files never sit in memory whole.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileAccessError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	reqURL := c.BaseURL + uploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, pr)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	go func() {
		part, err := mw.CreatePart(pdfPartHeader(filepath.Base(path)))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyTransportErr(reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(reqURL, err)
	}

	if !is2xx(resp.StatusCode) {
		return nil, &UploadError{StatusCode: resp.StatusCode, ServerDetail: serverDetail(body)}
	}

	var ur UploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return nil, &UploadError{
			StatusCode:   resp.StatusCode,
			ServerDetail: fmt.Sprintf("server accepted the upload but replied with a non-JSON body: %s", strings.TrimSpace(string(body))),
		}
	}
	if !ur.Success {
		detail := ur.ErrorDetail
		if detail == "" {
			detail = "server reported failure without detail"
		}
		return nil, &UploadError{StatusCode: resp.StatusCode, ServerDetail: detail}
	}
	return &ur, nil
}

// Query runs a free-text search over processed documents.
func (c *Client) Query(ctx context.Context, text string) (*QueryResponse, error) {
	payload, err := json.Marshal(map[string]string{"query": text})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	reqURL := c.BaseURL + queryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Content-Type", jsonContentType)
	c.setCommonHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyTransportErr(reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(reqURL, err)
	}

	if !is2xx(resp.StatusCode) {
		return nil, &QueryError{StatusCode: resp.StatusCode, ServerDetail: serverDetail(body)}
	}

	var qr QueryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, &QueryError{
			StatusCode:   resp.StatusCode,
			ServerDetail: fmt.Sprintf("unexpected response format: %s", strings.TrimSpace(string(body))),
		}
	}
	return &qr, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

// pdfPartHeader builds the multipart header for the file field. The
// stock CreateFormFile helper hardcodes application/octet-stream, and
// the bridge wants the part typed as PDF.
func pdfPartHeader(filename string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", pdfContentType)
	return h
}

func is2xx(status int) bool {
	return status >= 200 && status <= 299
}

// serverDetail extracts the server's error message from an error body.
// JSON bodies with an "error" field yield that field; anything else
// passes through verbatim for diagnostics.
func serverDetail(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
