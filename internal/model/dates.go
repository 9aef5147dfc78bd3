package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of Date values.
const DateLayout = "2006-01-02"

// dateTimeLayouts are tried in order when decoding a DateTime.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// Date is a calendar day stored in a DATE column and sent as "YYYY-MM-DD".
type Date struct{ time.Time }

// NewDate returns the given day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}

func (d *Date) Scan(src any) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}

func (d Date) Value() (driver.Value, error) { return d.Format(DateLayout), nil }

// DateTime is an instant stored in a DATETIME column. Values without a zone
// are read as UTC.
type DateTime struct{ time.Time }

// NewDateTime wraps t normalized to UTC with second precision.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Second)}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*d = NewDateTime(t)
	return nil
}

func (d *DateTime) Scan(src any) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	*d = NewDateTime(t)
	return nil
}

func (d DateTime) Value() (driver.Value, error) { return d.UTC().Format("2006-01-02 15:04:05"), nil }

func parseTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func scanTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case []byte:
		return parseTime(string(v))
	case string:
		return parseTime(v)
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("cannot scan %T into a date", src)
}
