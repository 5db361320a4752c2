package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"munaybol/constants"

	"github.com/goccy/go-json"
)

// Date is a calendar date stored without time of day
type Date struct {
	time.Time
}

// NewDate truncates t to midnight UTC of the same calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// MustDate is ParseDate for literals known to be valid
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time.AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(constants.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: %s", string(b))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("fecha inválida %q, use el formato AAAA-MM-DD", s)
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(constants.DateLayout) {
		parsed, err := ParseDate(s[:len(constants.DateLayout)])
		if err == nil {
			*d = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as Date", s)
}

func (Date) GormDataType() string {
	return "date"
}

// Interval is a closed range of calendar dates
type Interval struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Inverted reports whether End precedes Start
func (i Interval) Inverted() bool {
	return i.End.Before(i.Start)
}

// Overlaps reports whether two closed intervals share at least one day
func (i Interval) Overlaps(o Interval) bool {
	return !i.Start.After(o.End) && !o.Start.After(i.End)
}

// Contains reports whether d lies inside the interval
func (i Interval) Contains(d Date) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}
