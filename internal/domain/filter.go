package domain

import (
	"errors"
	"fmt"
)

// Field names a filterable dimension.
type Field string

const (
	FieldState   Field = "state"
	FieldDisease Field = "disease"
	FieldWeek    Field = "week"
)

// Fields lists every filterable dimension in display order.
var Fields = []Field{FieldState, FieldDisease, FieldWeek}

// ErrUnknownField is returned when a field name is not a filterable dimension.
var ErrUnknownField = errors.New("unknown filter field")

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldState, FieldDisease, FieldWeek:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Filter holds the selected dimensions. An empty field is absent.
type Filter struct {
	State   string `json:"state,omitempty"`
	Disease string `json:"disease,omitempty"`
	Week    string `json:"week,omitempty"`
}

// Get returns the value of a field and whether it is present.
func (f Filter) Get(field Field) (string, bool) {
	var v string
	switch field {
	case FieldState:
		v = f.State
	case FieldDisease:
		v = f.Disease
	case FieldWeek:
		v = f.Week
	}
	return v, v != ""
}

// With returns a copy of f with one field set. An empty value clears it.
func (f Filter) With(field Field, value string) (Filter, error) {
	switch field {
	case FieldState:
		f.State = value
	case FieldDisease:
		f.Disease = value
	case FieldWeek:
		f.Week = value
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return f, nil
}

// Only returns a copy of f restricted to the given fields.
func (f Filter) Only(fields ...Field) Filter {
	var out Filter
	for _, field := range fields {
		if v, ok := f.Get(field); ok {
			out, _ = out.With(field, v)
		}
	}
	return out
}

// IsZero reports whether no field is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Dimensional is implemented by records that expose filterable dimensions.
// ok is false when the record kind does not carry the field.
type Dimensional interface {
	Dimension(f Field) (value string, ok bool)
}

// FilterBy keeps the records whose carried dimensions equal every present
// filter field exactly. With no field set the input is returned unchanged.
// The input slice is never modified.
func FilterBy[T Dimensional](records []T, f Filter) []T {
	if f.IsZero() {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Dimensional, f Filter) bool {
	for _, field := range Fields {
		want, ok := f.Get(field)
		if !ok {
			continue
		}
		got, carried := r.Dimension(field)
		if carried && got != want {
			return false
		}
	}
	return true
}

// FilterState holds a view's selected filter and the value it resets to.
// It is not safe for concurrent use; views guard it.
type FilterState struct {
	initial Filter
	current Filter
}

// NewFilterState creates a FilterState starting at initial.
func NewFilterState(initial Filter) *FilterState {
	return &FilterState{initial: initial, current: initial}
}

// Select sets one field and leaves the others untouched. Values are not
// checked against the catalog; unknown values simply match nothing.
func (s *FilterState) Select(field Field, value string) error {
	next, err := s.current.With(field, value)
	if err != nil {
		return err
	}
	s.current = next
	return nil
}

// Reset restores the initial filter.
func (s *FilterState) Reset() {
	s.current = s.initial
}

// Current returns the selected filter.
func (s *FilterState) Current() Filter {
	return s.current
}

// Initial returns the filter Reset restores.
func (s *FilterState) Initial() Filter {
	return s.initial
}
