package textsim

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/SaviorKas/multidex/model"
)

// ErrInvalidTopK is returned when a query's result cap is not positive.
var ErrInvalidTopK = errors.New("top k must be positive")

// Index is the interface for an approximate text-similarity index.
type Index interface {
	// Add indexes the text attribute of a record.
	Add(id model.RecordID, text string) error

	// Query scores records similar to text and returns at most topK of
	// them, ordered by descending score with ties broken by ascending
	// record identifier. When candidates is non-nil, scoring is
	// restricted to that set; a nil candidate set means the whole
	// indexed collection.
	Query(text string, candidates *roaring.Bitmap, topK int) ([]model.ScoredID, error)
}
