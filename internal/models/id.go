package models

import (
	"encoding/json"
)

// ID is the opaque identifier of a backend record. The backend is not
// consistent about serializing ids as JSON numbers or strings, so both are
// accepted. The textual value is preserved verbatim and numeric ids are
// emitted as bare numbers again, which keeps large ids from losing
// precision through a float64 round trip.
type ID string

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}

	if isCanonicalInt(string(id)) {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

// isCanonicalInt reports whether s is a base-10 integer that is also a
// valid JSON number token. Digit strings with a leading zero ("007") are
// not; they must stay quoted or the emitted document is invalid JSON.
func isCanonicalInt(s string) bool {
	if len(s) == 0 || (len(s) > 1 && s[0] == '0') {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
