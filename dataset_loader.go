// dataset_loader.go
package main

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"
	"github.com/xuri/excelize/v2"

	"github.com/aquastat/water_dashboard/domain/models"
)

// SchemaError means the file cannot serve as a dataset: a required column
// is missing or a cell cannot be parsed. The loader fails closed, there is
// no partial dataset.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in column %q: %s", e.Column, e.Reason)
}

var requiredColumns = []string{
	models.ColUserID,
	models.ColAreaCode,
	models.ColDeviceID,
	models.ColWaterUsage,
	models.ColTime,
	models.ColMonthly,
	models.ColDaily,
	models.ColHourly,
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01-02-06 15:04", // excelize default display format for datetime cells
	"1/2/06 15:04",
}

var nonAlnum = regexp.MustCompile("[^a-zA-Z0-9]+")

// LoadDataset reads a tabular file into an immutable Dataset. Supported
// inputs are .xlsx and comma/tab separated text. Loading the same bytes
// twice yields value-equal datasets with the same fingerprint.
func LoadDataset(path string) (*models.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %v", path, err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readExcelRows(path)
	default:
		rows, err = readSeparatedRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Reason: "file contains no rows"}
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		name := normalizeHeader(header)
		// Index artifacts and the anomaly flag are not part of the
		// dashboard's schema.
		if name == "" || strings.HasPrefix(name, "unnamed") || name == "anomalous" {
			continue
		}
		if !go_utils.InArray(name, requiredColumns) {
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &SchemaError{Column: col, Reason: "column not found"}
		}
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		record, err := parseRecord(row, index)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sum := sha256.Sum256(raw)
	return &models.Dataset{
		Source:      path,
		Fingerprint: hex.EncodeToString(sum[:]),
		Rows:        records,
	}, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %v", path, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SchemaError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %v", sheets[0], err)
	}
	return rows, nil
}

func readSeparatedRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = ','
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		r.Comma = '\t'
	}
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %v", path, err)
	}
	return rows, nil
}

// normalizeHeader transliterates and collapses a raw header to the
// canonical lowercase form, "Monthly_Water_Consumption " ->
// "monthly_water_consumption".
func normalizeHeader(header string) string {
	s := unidecode.Unidecode(strings.TrimSpace(header))
	s = nonAlnum.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cell tolerates short rows: excelize trims trailing empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRecord(row []string, index map[string]int) (models.Record, error) {
	record := models.Record{
		UserID:     cell(row, index[models.ColUserID]),
		AreaCode:   cell(row, index[models.ColAreaCode]),
		DeviceID:   cell(row, index[models.ColDeviceID]),
		WaterUsage: cell(row, index[models.ColWaterUsage]),
	}

	ts, err := tryParseTime(cell(row, index[models.ColTime]))
	if err != nil {
		return record, &SchemaError{Column: models.ColTime, Reason: err.Error()}
	}
	record.Time = ts
	record.Year = ts.Year()
	record.Month = int(ts.Month())
	record.Day = ts.Day()

	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{models.ColMonthly, &record.Monthly},
		{models.ColDaily, &record.Daily},
		{models.ColHourly, &record.Hourly},
	} {
		v, err := strconv.ParseFloat(cell(row, index[c.name]), 64)
		if err != nil {
			return record, &SchemaError{Column: c.name, Reason: fmt.Sprintf("cannot parse number %q", cell(row, index[c.name]))}
		}
		*c.dst = v
	}
	return record, nil
}

func tryParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", value)
}
