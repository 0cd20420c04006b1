package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrTypeMismatch = errors.New("value type does not match field")
)

// Field enumerates the updatable columns of a [Movie].
type Field int

const (
	FieldUnknown Field = iota
	FieldTitle
	FieldReleaseDate
	FieldPhase
	FieldDirector
	FieldRunningTime
	FieldRating
)

// Fields lists every updatable field in column order.
var Fields = []Field{FieldTitle, FieldReleaseDate, FieldPhase, FieldDirector, FieldRunningTime, FieldRating}

// Kind is the declared value type of a [Field].
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindReal
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindReal:
		return "real"
	default:
		return "unknown"
	}
}

var fieldAliases = map[string]Field{
	"title":          FieldTitle,
	"releasedate":    FieldReleaseDate,
	"release_date":   FieldReleaseDate,
	"date":           FieldReleaseDate,
	"phase":          FieldPhase,
	"category":       FieldPhase,
	"director":       FieldDirector,
	"attribution":    FieldDirector,
	"runningtimemin": FieldRunningTime,
	"running_time":   FieldRunningTime,
	"runtime":        FieldRunningTime,
	"duration":       FieldRunningTime,
	"imdbrating":     FieldRating,
	"imdb_rating":    FieldRating,
	"rating":         FieldRating,
}

// ParseField resolves a field name case-insensitively.
func ParseField(name string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FieldUnknown, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// String returns the field's display name.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldReleaseDate:
		return "releaseDate"
	case FieldPhase:
		return "phase"
	case FieldDirector:
		return "director"
	case FieldRunningTime:
		return "runningTimeMin"
	case FieldRating:
		return "imdbRating"
	default:
		return "unknown"
	}
}

// Column returns the storage column backing the field.
func (f Field) Column() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldReleaseDate:
		return "release_date"
	case FieldPhase:
		return "phase"
	case FieldDirector:
		return "director"
	case FieldRunningTime:
		return "running_time"
	case FieldRating:
		return "rating"
	default:
		return ""
	}
}

// Kind returns the field's declared value type.
func (f Field) Kind() Kind {
	switch f {
	case FieldPhase, FieldRunningTime:
		return KindInt
	case FieldRating:
		return KindReal
	default:
		return KindText
	}
}

// FieldUpdate names exactly one field of a [Movie] together with a value of that field's type.
//
// The zero value names no field and is never accepted by stores or the catalog manager.
type FieldUpdate struct {
	field Field
	text  string
	whole int
	real  float64
}

// SetTitle renames a record. Surrounding whitespace is removed.
func SetTitle(title string) FieldUpdate {
	return FieldUpdate{field: FieldTitle, text: strings.TrimSpace(title)}
}

// SetReleaseDate changes the YYYY-MM-DD release date. Surrounding whitespace is removed.
func SetReleaseDate(date string) FieldUpdate {
	return FieldUpdate{field: FieldReleaseDate, text: strings.TrimSpace(date)}
}

// SetPhase changes the phase (category).
func SetPhase(phase int) FieldUpdate {
	return FieldUpdate{field: FieldPhase, whole: phase}
}

// SetDirector changes the director. Surrounding whitespace is removed.
func SetDirector(director string) FieldUpdate {
	return FieldUpdate{field: FieldDirector, text: strings.TrimSpace(director)}
}

// SetRunningTime changes the running time in minutes.
func SetRunningTime(minutes int) FieldUpdate {
	return FieldUpdate{field: FieldRunningTime, whole: minutes}
}

// SetRating changes the rating.
func SetRating(rating float64) FieldUpdate {
	return FieldUpdate{field: FieldRating, real: rating}
}

// NewFieldUpdate builds a [FieldUpdate] from a field name and a dynamically typed value.
//
// The value's Go type must match the field's [Kind] exactly: string for text fields, int for
// integer fields, float64 for the rating. Anything else is [ErrTypeMismatch].
func NewFieldUpdate(name string, value any) (FieldUpdate, error) {
	f, err := ParseField(name)
	if err != nil {
		return FieldUpdate{}, err
	}

	switch f.Kind() {
	case KindText:
		s, ok := value.(string)
		if !ok {
			return FieldUpdate{}, mismatch(f, value)
		}
		return textUpdate(f, s), nil
	case KindInt:
		n, ok := value.(int)
		if !ok {
			return FieldUpdate{}, mismatch(f, value)
		}
		return intUpdate(f, n), nil
	default:
		r, ok := value.(float64)
		if !ok {
			return FieldUpdate{}, mismatch(f, value)
		}
		return SetRating(r), nil
	}
}

// ParseFieldUpdate builds a [FieldUpdate] from a field name and raw text, parsing the text as the field's [Kind].
func ParseFieldUpdate(name, raw string) (FieldUpdate, error) {
	f, err := ParseField(name)
	if err != nil {
		return FieldUpdate{}, err
	}

	raw = strings.TrimSpace(raw)
	switch f.Kind() {
	case KindText:
		return textUpdate(f, raw), nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return FieldUpdate{}, fmt.Errorf("%w: %s expects an integer, got %q", ErrTypeMismatch, f, raw)
		}
		return intUpdate(f, n), nil
	default:
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FieldUpdate{}, fmt.Errorf("%w: %s expects a number, got %q", ErrTypeMismatch, f, raw)
		}
		return SetRating(r), nil
	}
}

func textUpdate(f Field, s string) FieldUpdate {
	switch f {
	case FieldTitle:
		return SetTitle(s)
	case FieldReleaseDate:
		return SetReleaseDate(s)
	default:
		return SetDirector(s)
	}
}

func intUpdate(f Field, n int) FieldUpdate {
	if f == FieldPhase {
		return SetPhase(n)
	}
	return SetRunningTime(n)
}

func mismatch(f Field, value any) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrTypeMismatch, f, f.Kind(), value)
}

// Field returns the field the update targets.
func (u FieldUpdate) Field() Field { return u.field }

// Text returns the value of a text field update.
func (u FieldUpdate) Text() string { return u.text }

// Int returns the value of an integer field update.
func (u FieldUpdate) Int() int { return u.whole }

// Float returns the value of the rating update.
func (u FieldUpdate) Float() float64 { return u.real }

// IsZero reports whether the update names no field.
func (u FieldUpdate) IsZero() bool { return u.field == FieldUnknown }

// Value returns the update's value with its declared Go type.
func (u FieldUpdate) Value() any {
	switch u.field.Kind() {
	case KindInt:
		return u.whole
	case KindReal:
		return u.real
	default:
		return u.text
	}
}

// Apply returns a copy of m with the update's field replaced. Every other field is left as is.
func (u FieldUpdate) Apply(m Movie) Movie {
	switch u.field {
	case FieldTitle:
		m.Title = u.text
	case FieldReleaseDate:
		m.ReleaseDate = u.text
	case FieldPhase:
		m.Phase = u.whole
	case FieldDirector:
		m.Director = u.text
	case FieldRunningTime:
		m.RunningTime = u.whole
	case FieldRating:
		m.Rating = u.real
	}
	return m
}

// String renders the update as "field=value".
func (u FieldUpdate) String() string {
	return fmt.Sprintf("%s=%v", u.field, u.Value())
}
