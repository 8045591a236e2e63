package models

import (
	"encoding/json"
	"time"
)

// Date is a calendar day without a time-of-day component, serialized as
// YYYY-MM-DD. The backend sends both plain dates and RFC3339 timestamps;
// timestamps are truncated to their day in UTC.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		*d = Date{}
		return nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		*d = Date{t}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}

	*d = Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return json.Marshal(d.Format("2006-01-02"))
}
