// Package excel imports bulk historical check-in data from XLSX or CSV
// exports. Imported rows are marked implicit-source so the confirmation gate
// can distinguish them from live daily check-ins.
package excel

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"supptruth/domain/core"
	"supptruth/internal/errors"
	"supptruth/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Expected header columns. Metric columns are optional per row; intake
// columns use the "intake:<identifier>" convention so one sheet can carry
// markers for any number of supplements.
const (
	colDate         = "date"
	colEnergy       = "energy"
	colMood         = "mood"
	colFocus        = "focus"
	colSleepQuality = "sleep_quality"
	colTags         = "tags"
	intakePrefix    = "intake:"
)

// CheckinImporter parses check-in history files into rows ready for bulk insert
type CheckinImporter struct {
	userID uuid.UUID
}

// NewCheckinImporter creates an importer scoped to one user
func NewCheckinImporter(userID uuid.UUID) *CheckinImporter {
	return &CheckinImporter{userID: userID}
}

// Import reads check-in history from a stream, dispatching on the uploaded
// filename's extension
func (im *CheckinImporter) Import(filename string, r io.Reader) ([]models.CheckinRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return im.ImportCSV(r)
	case ".xlsx":
		return im.ImportXLSX(r)
	}
	return nil, errors.InvalidInput("unsupported import file type (want .xlsx or .csv)")
}

// ImportXLSX reads check-in history from an XLSX stream, using the first sheet
func (im *CheckinImporter) ImportXLSX(r io.Reader) ([]models.CheckinRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ImportFailed("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ImportFailed("workbook has no sheets", core.ErrImportMalformed)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ImportFailed("failed to read sheet rows", err)
	}
	return im.parseRecords(records)
}

// ImportCSV reads check-in history from a CSV stream
func (im *CheckinImporter) ImportCSV(r io.Reader) ([]models.CheckinRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit trailing intake columns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ImportFailed("failed to parse CSV", err)
	}
	return im.parseRecords(records)
}

// parseRecords converts a header row plus data rows into check-in rows.
// Rows with an unparseable date are skipped rather than failing the import.
func (im *CheckinImporter) parseRecords(records [][]string) ([]models.CheckinRow, error) {
	if len(records) < 2 {
		return nil, errors.ImportFailed("import needs a header row and at least one data row", core.ErrImportMalformed)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if indexOf(header, colDate) < 0 {
		return nil, errors.ImportFailed("import is missing the date column", core.ErrImportMalformed)
	}

	var rows []models.CheckinRow
	for _, record := range records[1:] {
		row, ok := im.parseRow(header, record)
		if ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, errors.ImportFailed("no importable rows found", core.ErrImportMalformed)
	}
	return rows, nil
}

func (im *CheckinImporter) parseRow(header, record []string) (models.CheckinRow, bool) {
	row := models.CheckinRow{
		ID:        uuid.New(),
		UserID:    im.userID,
		Source:    models.CheckinSourceImplicit,
		IntakeMap: map[string]interface{}{},
	}

	for i, raw := range record {
		if i >= len(header) {
			break
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch col := header[i]; {
		case col == colDate:
			day, err := parseDay(value)
			if err != nil {
				return row, false
			}
			row.Day = day
		case col == colEnergy:
			row.Energy = parseMetric(value)
		case col == colMood:
			row.Mood = parseMetric(value)
		case col == colFocus:
			row.Focus = parseMetric(value)
		case col == colSleepQuality:
			row.SleepQuality = parseMetric(value)
		case col == colTags:
			row.Tags = splitTags(value)
		case strings.HasPrefix(col, intakePrefix):
			name := strings.TrimPrefix(col, intakePrefix)
			if name != "" {
				row.IntakeMap[name] = value
			}
		}
	}

	return row, !row.Day.IsZero()
}

var dayLayouts = []string{core.DayLayout, "01/02/2006", "2006/01/02", time.RFC3339}

func parseDay(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(24 * time.Hour), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func parseMetric(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	var tags []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func indexOf(haystack []string, needle string) int {
	for i, h := range haystack {
		if h == needle {
			return i
		}
	}
	return -1
}
