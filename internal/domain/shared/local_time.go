package shared

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// LocalTimeLayout is the wire and display format of schedule timestamps
const LocalTimeLayout = "2006-01-02 15:04"

var localTimeInputLayouts = []string{
	LocalTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// LocalTime is a naive wall-clock timestamp with minute resolution.
// All legs of a schedule share one reference clock, so no zone is carried;
// the zero value means "not set".
type LocalTime struct {
	t time.Time
}

// NewLocalTime drops the zone of t (keeping its wall clock) and truncates to the minute
func NewLocalTime(t time.Time) LocalTime {
	if t.IsZero() {
		return LocalTime{}
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return LocalTime{t: wall}
}

// ParseLocalTime accepts the canonical layout plus a few common variants.
// Zoned inputs keep their wall clock.
func ParseLocalTime(value string) (LocalTime, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return LocalTime{}, nil
	}
	var lastErr error
	for _, layout := range localTimeInputLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return NewLocalTime(parsed), nil
		}
		lastErr = err
	}
	return LocalTime{}, lastErr
}

// MustParseLocalTime parses value and panics on error; for fixtures and tests
func MustParseLocalTime(value string) LocalTime {
	lt, err := ParseLocalTime(value)
	if err != nil {
		panic(err)
	}
	return lt
}

func (l LocalTime) IsZero() bool {
	return l.t.IsZero()
}

// Time returns the wall clock as a UTC time.Time
func (l LocalTime) Time() time.Time {
	return l.t
}

// AddDays shifts the timestamp by a fractional number of days, rounded to the minute
func (l LocalTime) AddDays(days float64) LocalTime {
	if l.IsZero() {
		return l
	}
	minutes := math.Round(days * 24 * 60)
	return LocalTime{t: l.t.Add(time.Duration(minutes) * time.Minute)}
}

// DaysSince returns the fractional number of days between other and l
func (l LocalTime) DaysSince(other LocalTime) float64 {
	if l.IsZero() || other.IsZero() {
		return 0
	}
	return l.t.Sub(other.t).Hours() / 24
}

func (l LocalTime) Equal(other LocalTime) bool {
	return l.t.Equal(other.t)
}

func (l LocalTime) Before(other LocalTime) bool {
	return l.t.Before(other.t)
}

func (l LocalTime) After(other LocalTime) bool {
	return l.t.After(other.t)
}

func (l LocalTime) String() string {
	if l.IsZero() {
		return ""
	}
	return l.t.Format(LocalTimeLayout)
}

func (l LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts a string in any supported layout, or null.
// Malformed values decode to the zero time.
func (l *LocalTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = LocalTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(raw)
	if err != nil {
		*l = LocalTime{}
		return nil
	}
	*l = parsed
	return nil
}

// MarshalText lets text-based encoders (YAML, form values) use the canonical layout
func (l LocalTime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText is lenient like UnmarshalJSON
func (l *LocalTime) UnmarshalText(text []byte) error {
	parsed, err := ParseLocalTime(string(text))
	if err != nil {
		*l = LocalTime{}
		return nil
	}
	*l = parsed
	return nil
}
