package multidex

import (
	"errors"
	"fmt"

	"github.com/SaviorKas/multidex/query"
)

var (
	// ErrNoRecords is returned when an engine is built over an empty
	// record set.
	ErrNoRecords = errors.New("no records to index")

	// ErrInvalidTopK is returned when a query's result cap is not
	// positive.
	ErrInvalidTopK = query.ErrInvalidTopK
)

// ErrUnknownVariant indicates a query against an index variant the
// engine was not built with.
type ErrUnknownVariant struct {
	Variant Variant
}

func (e *ErrUnknownVariant) Error() string {
	return fmt.Sprintf("unknown index variant: %q", e.Variant)
}

// ErrUnknownTextAttribute indicates a query against a text attribute
// the engine has no similarity index for.
type ErrUnknownTextAttribute struct {
	Attribute string
}

func (e *ErrUnknownTextAttribute) Error() string {
	return fmt.Sprintf("unknown text attribute: %q", e.Attribute)
}
