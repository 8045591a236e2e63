package upstream

import (
	"errors"
	"fmt"
)

// APIError is returned when the backend answers with a status outside the
// 2xx range. The message is taken from the response body when the backend
// provides one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// ProtocolError is returned when a response cannot be interpreted: the body
// is not JSON, or a list body has none of the known envelope shapes. It
// carries a truncated snippet of the offending body.
type ProtocolError struct {
	Reason  string
	Snippet string
}

func (e *ProtocolError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("protocol error: %s", e.Reason)
	}

	return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Snippet)
}

// snippetLength bounds how much of a response body ends up in error
// messages and logs.
const snippetLength = 200

func snippet(body []byte) string {
	if len(body) <= snippetLength {
		return string(body)
	}

	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := snippetLength
	for cut > 0 && body[cut]&0xC0 == 0x80 {
		cut--
	}

	return string(body[:cut]) + "…"
}
