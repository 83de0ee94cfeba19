package excel

import (
	"strings"
	"testing"
	"time"

	"supptruth/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,energy,mood,tags,intake:magnesium,intake:ashwagandha
2025-01-01,7,6,,taken,skipped
2025-01-02,5,,alcohol; travel,skipped,
2025-01-03,8,7,gym,1,taken
not-a-date,9,9,,taken,
2025-01-05,,,,,
`

func TestImportCSV(t *testing.T) {
	userID := uuid.New()
	im := NewCheckinImporter(userID)

	rows, err := im.ImportCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4, "the unparseable-date row is skipped")

	first := rows[0]
	assert.Equal(t, userID, first.UserID)
	assert.Equal(t, models.CheckinSourceImplicit, first.Source)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), first.Day)
	require.NotNil(t, first.Energy)
	assert.Equal(t, 7.0, *first.Energy)
	require.NotNil(t, first.Mood)
	assert.Equal(t, 6.0, *first.Mood)
	assert.Nil(t, first.Focus)
	assert.Empty(t, first.Tags)
	assert.Equal(t, "taken", first.IntakeMap["magnesium"])
	assert.Equal(t, "skipped", first.IntakeMap["ashwagandha"])

	second := rows[1]
	assert.Nil(t, second.Mood, "blank cells stay nil")
	assert.Equal(t, []string{"alcohol", "travel"}, second.Tags)
	assert.NotContains(t, second.IntakeMap, "ashwagandha", "blank intake cells are absent, not false")

	third := rows[2]
	assert.Equal(t, "1", third.IntakeMap["magnesium"], "numeric markers survive as raw strings")
	assert.Equal(t, []string{"gym"}, third.Tags)

	// A date-only row still imports: it contributes to coverage totals.
	last := rows[3]
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), last.Day)
	assert.Nil(t, last.Energy)
	assert.Empty(t, last.IntakeMap)
}

func TestImport_DispatchesOnExtension(t *testing.T) {
	im := NewCheckinImporter(uuid.New())

	rows, err := im.Import("History.CSV", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = im.Import("history.pdf", strings.NewReader(""))
	assert.Error(t, err)
}

func TestImportCSV_MalformedInputs(t *testing.T) {
	im := NewCheckinImporter(uuid.New())

	_, err := im.ImportCSV(strings.NewReader("date,energy\n"))
	assert.Error(t, err, "header without data rows")

	_, err = im.ImportCSV(strings.NewReader("day,energy\n2025-01-01,7\n"))
	assert.Error(t, err, "missing date column")

	_, err = im.ImportCSV(strings.NewReader("date,energy\nnope,7\n"))
	assert.Error(t, err, "no importable rows")
}

func TestImportCSV_AlternateDateFormats(t *testing.T) {
	im := NewCheckinImporter(uuid.New())
	csv := "date,energy\n01/15/2025,6\n2025/01/16,7\n"

	rows, err := im.ImportCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), rows[0].Day)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), rows[1].Day)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"alcohol", "travel", "gym"}, splitTags("alcohol; travel, gym"))
	assert.Nil(t, splitTags("  ;, "))
}
