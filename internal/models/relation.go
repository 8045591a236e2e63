package models

import (
	"bytes"
	"encoding/json"
)

// Record is implemented by every backend record that has an ID.
type Record interface {
	RecordID() ID
}

// Relation is a foreign-key field. The backend serializes relations either
// as a bare id or as a nested object depending on the endpoint; a Relation
// accepts both shapes and always normalizes to the bare id, which is also
// the shape it serializes back to.
type Relation[T Record] struct {
	id       ID
	expanded *T
}

// Rel returns a Relation pointing at the record with the given id.
func Rel[T Record](id ID) Relation[T] {
	return Relation[T]{id: id}
}

// ID returns the normalized bare id of the related record.
func (r Relation[T]) ID() ID {
	if r.expanded != nil {
		return (*r.expanded).RecordID()
	}

	return r.id
}

// Expanded returns the nested record if the backend supplied one.
func (r Relation[T]) Expanded() (T, bool) {
	if r.expanded == nil {
		var zero T
		return zero, false
	}

	return *r.expanded, true
}

// IsZero reports whether the relation is unset.
func (r Relation[T]) IsZero() bool {
	return r.ID().IsZero()
}

func (r *Relation[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var v T
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*r = Relation[T]{id: v.RecordID(), expanded: &v}
		return nil
	}

	var id ID
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return err
	}
	*r = Relation[T]{id: id}
	return nil
}

func (r Relation[T]) MarshalJSON() ([]byte, error) {
	return r.ID().MarshalJSON()
}
