package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScanner feeds canned column values into the scan helpers. A nil value
// leaves the destination at its zero value, like a NULL column.
type stubScanner struct {
	vals []interface{}
}

func (s *stubScanner) Scan(dest ...interface{}) error {
	for i, d := range dest {
		if i >= len(s.vals) || s.vals[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(s.vals[i]))
	}
	return nil
}

func checkinScanValues() []interface{} {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	energy := 7.0
	return []interface{}{
		uuid.New(), uuid.New(), day, &energy, nil, nil, nil,
		[]byte(`["alcohol"]`), []byte(`{"magnesium":"taken"}`), "explicit", day,
	}
}

func TestScanCheckin(t *testing.T) {
	row, err := scanCheckin(&stubScanner{vals: checkinScanValues()})
	require.NoError(t, err)

	assert.Equal(t, []string{"alcohol"}, row.Tags)
	assert.Equal(t, "taken", row.IntakeMap["magnesium"])
	require.NotNil(t, row.Energy)
	assert.Equal(t, 7.0, *row.Energy)
	assert.Nil(t, row.Mood)
}

func TestScanCheckin_CorruptJSON(t *testing.T) {
	corruptTags := checkinScanValues()
	corruptTags[7] = []byte(`{not json`)
	_, err := scanCheckin(&stubScanner{vals: corruptTags})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags")

	corruptIntake := checkinScanValues()
	corruptIntake[8] = []byte(`[truncated`)
	_, err = scanCheckin(&stubScanner{vals: corruptIntake})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intake")
}

func supplementScanValues() []interface{} {
	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return []interface{}{
		uuid.New(), uuid.New(), nil, "Magnesium", "energy",
		[]byte(`["mag","magnesium glycinate"]`), "active", nil, nil, nil, created,
	}
}

func TestScanSupplement(t *testing.T) {
	row, err := scanSupplement(&stubScanner{vals: supplementScanValues()})
	require.NoError(t, err)

	assert.Equal(t, "Magnesium", row.Name)
	assert.Equal(t, []string{"mag", "magnesium glycinate"}, row.Aliases)
	assert.Nil(t, row.RestartDate)
}

func TestScanSupplement_CorruptAliases(t *testing.T) {
	vals := supplementScanValues()
	vals[5] = []byte(`not-json`)
	_, err := scanSupplement(&stubScanner{vals: vals})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aliases")
}
