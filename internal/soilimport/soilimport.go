// Package soilimport reads district soil reference tables from spreadsheets
// (.xlsx, first sheet) or CSV files with a header row.
//
// Headers are matched case-, space-, dash- and underscore-insensitively and
// several aliases are accepted per column:
//
//	district | n, nitrogen | p, phosphorus | k, potassium | ph |
//	temperature, temp | humidity | rainfall, rain
package soilimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/domain"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported soil file format")

type column int

const (
	colDistrict column = iota
	colN
	colP
	colK
	colPH
	colTemp
	colHumidity
	colRainfall
	numColumns
)

var aliases = [numColumns][]string{
	colDistrict: {"district", "districtname"},
	colN:        {"n", "nitrogen"},
	colP:        {"p", "phosphorus"},
	colK:        {"k", "potassium"},
	colPH:       {"ph", "phlevel"},
	colTemp:     {"temperature", "temp"},
	colHumidity: {"humidity"},
	colRainfall: {"rainfall", "rain"},
}

var columnNames = [numColumns]string{"district", "N", "P", "K", "ph", "temperature", "humidity", "rainfall"}

// Load reads path, choosing the parser by extension.
func Load(path string) ([]domain.SoilProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses a CSV soil table.
func ReadCSV(r io.Reader) ([]domain.SoilProfile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows)
}

// ReadXLSX parses the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]domain.SoilProfile, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func parseRows(rows [][]string) ([]domain.SoilProfile, error) {
	if len(rows) == 0 {
		return nil, errors.New("soil table is empty")
	}

	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	var idx [numColumns]int
	var missing []string
	for c := column(0); c < numColumns; c++ {
		idx[c] = -1
		for _, a := range aliases[c] {
			if i, ok := hmap[a]; ok {
				idx[c] = i
				break
			}
		}
		if idx[c] == -1 {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("soil table missing columns %v; found headers %v", missing, rows[0])
	}

	out := make([]domain.SoilProfile, 0, len(rows)-1)
	for n, rec := range rows[1:] {
		line := n + 2 // 1-based, after header
		get := func(c column) string {
			i := idx[c]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		district := get(colDistrict)
		if district == "" {
			continue
		}

		var vals [numColumns]float64
		for c := colN; c < numColumns; c++ {
			v, err := strconv.ParseFloat(get(c), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d (%s): column %s: %q is not a number", line, district, columnNames[c], get(c))
			}
			vals[c] = v
		}

		out = append(out, domain.SoilProfile{
			District: strings.ToLower(district),
			SoilSample: advisor.SoilSample{
				N:           vals[colN],
				P:           vals[colP],
				K:           vals[colK],
				PH:          vals[colPH],
				Temperature: vals[colTemp],
				Humidity:    vals[colHumidity],
				Rainfall:    vals[colRainfall],
			},
		})
	}
	return out, nil
}
