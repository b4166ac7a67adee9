package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// ErrorKind is the normalized failure taxonomy. Every error leaving this
// package is an *Error carrying one of these kinds; callers never see raw
// transport errors.
type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindNetworkUnreachable ErrorKind = "network_unreachable"
	KindServerError        ErrorKind = "server_error"
	KindValidationError    ErrorKind = "validation_error"
)

// Error is the uniform error shape produced by the client.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the error kind, or KindServerError for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServerError
}

// validationDetail is the structured validation payload the server returns
// for malformed request bodies: {"detail":[{"loc":["body","email"],"msg":"invalid"}]}.
type validationDetail struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// normalizeResponse maps a non-2xx response to an *Error per the taxonomy.
func normalizeResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Error{
			Kind:    KindInvalidCredentials,
			Status:  resp.StatusCode,
			Message: "authentication failed: please sign in again",
		}
	case http.StatusForbidden:
		return &Error{
			Kind:    KindServerError,
			Status:  resp.StatusCode,
			Message: "you do not have permission to perform this action",
		}
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Detail) > 0 {
			if msg, ok := joinValidationErrors(parsed.Detail); ok {
				return &Error{Kind: KindValidationError, Status: resp.StatusCode, Message: msg}
			}
			var detail string
			if json.Unmarshal(parsed.Detail, &detail) == nil && detail != "" {
				return &Error{Kind: KindServerError, Status: resp.StatusCode, Message: detail}
			}
		}
		if parsed.Message != "" {
			return &Error{Kind: KindServerError, Status: resp.StatusCode, Message: parsed.Message}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" || strings.HasPrefix(msg, "{") || strings.HasPrefix(msg, "[") {
		msg = fmt.Sprintf("server error: %d", resp.StatusCode)
	}
	return &Error{Kind: KindServerError, Status: resp.StatusCode, Message: msg}
}

// joinValidationErrors renders a validation detail list as
// "field: message; field: message". The leading "body" location segment is
// dropped, nested segments are dot-joined.
func joinValidationErrors(raw json.RawMessage) (string, bool) {
	var details []validationDetail
	if err := json.Unmarshal(raw, &details); err != nil || len(details) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(details))
	for _, d := range details {
		segments := make([]string, 0, len(d.Loc))
		for i, seg := range d.Loc {
			if i == 0 {
				continue
			}
			var s string
			if json.Unmarshal(seg, &s) != nil {
				var n int
				if json.Unmarshal(seg, &n) != nil {
					continue
				}
				s = fmt.Sprintf("%d", n)
			}
			segments = append(segments, s)
		}
		field := strings.Join(segments, ".")
		if field == "" {
			parts = append(parts, d.Msg)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, d.Msg))
	}
	return strings.Join(parts, "; "), true
}

// normalizeTransport maps request failures where no response was received.
// Connectivity failures (refused connections, DNS) report the network as
// unreachable; anything else, timeouts included, is treated as the server
// not responding.
func normalizeTransport(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{
			Kind:    KindServerError,
			Message: "no response from server: please check your connection",
		}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return &Error{
			Kind:    KindNetworkUnreachable,
			Message: "you appear to be offline: please check your internet connection",
		}
	}

	return &Error{
		Kind:    KindServerError,
		Message: fmt.Sprintf("request failed: %v", err),
	}
}
