package cellval

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind is the closed set of cell value variants docmerge distinguishes.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

// Value is a single cell value. Raw always keeps the display string the cell
// was read with, so numeric cells like "007" survive round trips untouched.
// Time is only meaningful when Kind is KindDate.
type Value struct {
	Kind Kind
	Raw  string
	Time time.Time
}

// Classify derives a Value from a cell's display string. Numbers win over
// dates so bare numerals ("2024") stay numeric instead of being read as a
// year by the date parser.
func Classify(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{Kind: KindEmpty, Raw: ""}
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: KindNumber, Raw: raw}
	}
	if t, err := dateparse.ParseAny(trimmed); err == nil {
		return Value{Kind: KindDate, Raw: raw, Time: t}
	}
	return Value{Kind: KindText, Raw: raw}
}

// FromTime builds a date-typed value.
func FromTime(t time.Time) Value {
	return Value{Kind: KindDate, Raw: t.Format("2006-01-02"), Time: t}
}

// IsEmpty reports whether the cell holds no value.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty || strings.TrimSpace(v.Raw) == ""
}

// String renders the value for placeholder substitution: dates as
// yyyy-MM-dd, empty cells as "", everything else as its display string.
func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindDate:
		return v.Time.Format("2006-01-02")
	default:
		return v.Raw
	}
}

// YearString renders the value for the filename's year slot: dates collapse
// to the four-digit year, everything else falls back to String.
func (v Value) YearString() string {
	if v.Kind == KindDate {
		return v.Time.Format("2006")
	}
	return v.String()
}
