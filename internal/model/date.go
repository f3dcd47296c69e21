package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts "2006-01-02" and full RFC 3339 timestamps, keeping only the date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return NewDate(t), nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := parseStoredDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := parseStoredDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// parseStoredDate tolerates drivers that hand back a timestamp string for DATE columns.
func parseStoredDate(s string) (Date, error) {
	if len(s) >= len(DateLayout) {
		t, err := time.Parse(DateLayout, s[:len(DateLayout)])
		if err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid stored date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
