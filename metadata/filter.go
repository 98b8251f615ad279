package metadata

import (
	"fmt"
	"time"
)

// DateLayout is the layout accepted for date-valued metadata.
const DateLayout = "2006-01-02"

// Operator identifies how a filter compares a metadata value.
type Operator uint8

const (
	// OpEqual accepts a single exact value.
	OpEqual Operator = iota
	// OpIn accepts any member of a value set.
	OpIn
	// OpDateRange accepts dates within an inclusive [start, end] window.
	OpDateRange
)

// Filter is one exact-match predicate over a categorical attribute.
type Filter struct {
	Key      string
	Operator Operator
	Value    string
	Values   []string
	Start    time.Time
	End      time.Time
}

// Equal creates a filter accepting records whose attribute equals value.
func Equal(key, value string) Filter {
	return Filter{Key: key, Operator: OpEqual, Value: value}
}

// In creates a filter accepting records whose attribute is any of values.
func In(key string, values ...string) Filter {
	return Filter{Key: key, Operator: OpIn, Values: values}
}

// DateRange creates a filter accepting records whose attribute, parsed
// as a calendar date, falls within [start, end] inclusive. Dates are
// compared as parsed time values rather than strings, so malformed
// stored values never match by accident.
func DateRange(key, start, end string) (Filter, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Filter{}, fmt.Errorf("metadata: invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Filter{}, fmt.Errorf("metadata: invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return Filter{}, fmt.Errorf("metadata: date range end %q before start %q", end, start)
	}
	return Filter{Key: key, Operator: OpDateRange, Start: s, End: e}, nil
}

// Matches checks if the provided metadata matches this filter. A record
// missing the filtered attribute does not match.
func (f Filter) Matches(doc map[string]string) bool {
	value, exists := doc[f.Key]
	if !exists {
		return false
	}

	switch f.Operator {
	case OpEqual:
		return value == f.Value
	case OpIn:
		for _, v := range f.Values {
			if value == v {
				return true
			}
		}
		return false
	case OpDateRange:
		d, err := time.Parse(DateLayout, value)
		if err != nil {
			return false
		}
		return !d.Before(f.Start) && !d.After(f.End)
	default:
		return false
	}
}

// FilterSet is a conjunction of filters.
type FilterSet struct {
	Filters []Filter
}

// NewFilterSet creates a FilterSet from the given filters.
func NewFilterSet(filters ...Filter) *FilterSet {
	return &FilterSet{Filters: filters}
}

// Matches checks if the provided metadata matches all filters in the set.
// An empty set matches everything.
func (fs *FilterSet) Matches(doc map[string]string) bool {
	if fs == nil {
		return true
	}
	for _, f := range fs.Filters {
		if !f.Matches(doc) {
			return false
		}
	}
	return true
}
