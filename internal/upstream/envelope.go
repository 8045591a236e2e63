package upstream

import (
	"bytes"
	"encoding/json"
)

// DecodeList normalizes the three list shapes the backend is known to
// return: a bare array, {"data": [...]} and {"results": [...]}. Anything
// else is a ProtocolError. A genuinely unrecognized shape must fail loudly
// instead of being masked as an empty collection.
func DecodeList(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) == 0 {
		return &ProtocolError{Reason: "empty list response"}
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return &ProtocolError{Reason: "malformed list body", Snippet: snippet(trimmed)}
		}
		return nil
	}

	if trimmed[0] == '{' {
		var envelope struct {
			Data    json.RawMessage `json:"data"`
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return &ProtocolError{Reason: "malformed list body", Snippet: snippet(trimmed)}
		}

		inner := envelope.Data
		if inner == nil {
			inner = envelope.Results
		}

		if isArray(inner) {
			if err := json.Unmarshal(inner, out); err != nil {
				return &ProtocolError{Reason: "malformed list body", Snippet: snippet(trimmed)}
			}
			return nil
		}
	}

	return &ProtocolError{Reason: "unrecognized list shape", Snippet: snippet(trimmed)}
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
