// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NetworkKind classifies a transport-level failure.
type NetworkKind string

const (
	KindTimeout    NetworkKind = "timeout"
	KindConnection NetworkKind = "connection"
	KindDNS        NetworkKind = "dns"
)

// NetworkError reports a failure to reach the bridge API at all, as
// opposed to an error response the server sent back. The distinction
// matters to callers: a NetworkError is worth retrying later, a server
// error usually is not.
type NetworkError struct {
	Kind NetworkKind
	URL  string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s error reaching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// classifyTransportErr wraps an http.Client.Do failure as a NetworkError.
// DNS failures and timeouts get their own kinds; everything else counts
// as a connection failure.
func classifyTransportErr(reqURL string, err error) *NetworkError {
	kind := KindConnection

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		kind = KindDNS
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &NetworkError{Kind: kind, URL: reqURL, Err: err}
}

// FileAccessError reports a local file that could not be read. Upload
// returns it before any request is attempted.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// UploadError reports an upload the server rejected. ServerDetail carries
// the server's own error message verbatim when one was provided.
type UploadError struct {
	StatusCode   int
	ServerDetail string
}

func (e *UploadError) Error() string {
	if e.ServerDetail != "" {
		return fmt.Sprintf("upload failed: HTTP %d: %s", e.StatusCode, e.ServerDetail)
	}
	return fmt.Sprintf("upload failed: HTTP %d", e.StatusCode)
}

// QueryError reports a query the server rejected, analogous to UploadError.
type QueryError struct {
	StatusCode   int
	ServerDetail string
}

func (e *QueryError) Error() string {
	if e.ServerDetail != "" {
		return fmt.Sprintf("query failed: HTTP %d: %s", e.StatusCode, e.ServerDetail)
	}
	return fmt.Sprintf("query failed: HTTP %d", e.StatusCode)
}
