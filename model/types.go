package model

import "fmt"

// RecordID is the stable identifier of a record. IDs are assigned by the
// loading collaborator in dataset order and never change for the lifetime
// of a collection.
type RecordID uint32

// Record is one immutable row of the indexed collection.
type Record struct {
	ID RecordID

	// Numeric holds the real-valued attributes, ordered per
	// Schema.NumericDimensions.
	Numeric []float64

	// Meta holds the categorical attributes (country codes, language
	// codes, release dates, ...) keyed by attribute name.
	Meta map[string]string

	// Text holds the free-form text attributes keyed by attribute name.
	Text map[string]string
}

// Schema describes the attribute shape of a collection. The order of
// NumericDimensions matters: it defines the projection used by the
// spatial indexes.
type Schema struct {
	NumericDimensions  []string
	TextAttributes     []string
	MetadataAttributes []string
}

// DimensionIndex returns the position of a named numeric dimension
// within Record.Numeric.
func (s Schema) DimensionIndex(name string) (int, bool) {
	for i, d := range s.NumericDimensions {
		if d == name {
			return i, true
		}
	}
	return 0, false
}

// HasTextAttribute reports whether name is a configured text attribute.
func (s Schema) HasTextAttribute(name string) bool {
	for _, t := range s.TextAttributes {
		if t == name {
			return true
		}
	}
	return false
}

// Validate checks the schema against a record set.
func (s Schema) Validate(records []Record) error {
	if len(s.NumericDimensions) == 0 {
		return fmt.Errorf("schema: no numeric dimensions configured")
	}
	for i := range records {
		if len(records[i].Numeric) != len(s.NumericDimensions) {
			return fmt.Errorf("schema: record %d has %d numeric attributes, schema expects %d",
				records[i].ID, len(records[i].Numeric), len(s.NumericDimensions))
		}
	}
	return nil
}

// ScoredID pairs a record identifier with a similarity score in [0,1].
type ScoredID struct {
	ID    RecordID
	Score float64
}
