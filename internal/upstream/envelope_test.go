package upstream_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/upstream"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"Bare array", `[{"id": 1}, {"id": 2}]`, 2},
		{"Data envelope", `{"data": [{"id": 1}]}`, 1},
		{"Results envelope", `{"count": 3, "results": [{"id": 1}, {"id": 2}, {"id": 3}]}`, 3},
		{"Empty bare array", `[]`, 0},
		{"Empty data envelope", `{"data": []}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []models.Reference
			require.NoError(t, upstream.DecodeList([]byte(tt.raw), &out))
			assert.Len(t, out, tt.want)
		})
	}
}

func TestDecodeListUnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Object without a list key", `{"count": 0}`},
		{"Envelope key holding a scalar", `{"data": 12}`},
		{"Scalar", `42`},
		{"Empty body", ``},
		{"Malformed JSON", `{"data": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []models.Reference

			err := upstream.DecodeList([]byte(tt.raw), &out)

			var protoErr *upstream.ProtocolError
			require.True(t, errors.As(err, &protoErr), "expected a ProtocolError, got %v", err)
		})
	}
}

func TestSnippetTruncatesOnRuneBoundary(t *testing.T) {
	// The truncated body snippet must stay valid UTF-8 even when the cut
	// point falls inside a multi-byte character.
	raw := `{"erreur": "` + strings.Repeat("仕訳", 200) + `"}`

	var out []models.Reference
	err := upstream.DecodeList([]byte(raw), &out)

	var protoErr *upstream.ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.NotEmpty(t, protoErr.Snippet)
	assert.True(t, utf8.ValidString(protoErr.Snippet))
}
