package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaviorKas/multidex/model"
)

var schema = model.Schema{
	NumericDimensions:  []string{"budget", "popularity"},
	TextAttributes:     []string{"company"},
	MetadataAttributes: []string{"language", "release_date"},
}

const sample = `title,budget,popularity,company,language,release_date
First,1000,5.5,Alpha Films,en,2005-01-10
Second,2000,not-a-number,Beta Corp,fr,2010-02-20
Third,3000,7.25,Gamma Inc,en,2015-03-30
`

func TestLoad(t *testing.T) {
	records, skipped, err := Load(strings.NewReader(sample), schema)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "unparsable numeric rows are dropped")
	require.Len(t, records, 2)

	// IDs follow retained-row order.
	assert.Equal(t, model.RecordID(0), records[0].ID)
	assert.Equal(t, model.RecordID(1), records[1].ID)

	assert.Equal(t, []float64{1000, 5.5}, records[0].Numeric)
	assert.Equal(t, "Alpha Films", records[0].Text["company"])
	assert.Equal(t, "en", records[0].Meta["language"])
	assert.Equal(t, "2015-03-30", records[1].Meta["release_date"])
}

func TestLoadMissingColumn(t *testing.T) {
	_, _, err := Load(strings.NewReader("a,b\n1,2\n"), schema)
	assert.Error(t, err)
}

func TestLoadEmptyBody(t *testing.T) {
	records, skipped, err := Load(strings.NewReader("budget,popularity,company,language,release_date\n"), schema)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}
