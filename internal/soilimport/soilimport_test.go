package soilimport

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_AliasesAndSkips(t *testing.T) {
	in := "\uFEFFDistrict,Nitrogen,Phosphorus,Potassium,pH,Temp,Humidity,Rain_fall\n" +
		"Pune,80,40,40,6.8,24,60,700\n" +
		",1,1,1,1,1,1,1\n" +
		"Nashik, 70 ,35,45,7.1,26,55,600\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "pune", rows[0].District)
	assert.Equal(t, 80.0, rows[0].N)
	assert.Equal(t, 6.8, rows[0].PH)
	assert.Equal(t, 700.0, rows[0].Rainfall)
	assert.Equal(t, "nashik", rows[1].District)
	assert.Equal(t, 70.0, rows[1].N)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("district,n,p\npune,1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "K")
	assert.Contains(t, err.Error(), "rainfall")
}

func TestReadCSV_BadNumberNamesRow(t *testing.T) {
	in := "district,n,p,k,ph,temperature,humidity,rainfall\n" +
		"pune,80,40,40,6.8,24,60,700\n" +
		"nagpur,eighty,40,40,6.8,24,60,700\n"
	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "nagpur")
}

func TestReadCSV_RejectsNonFiniteNumbers(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf", "+infinity"} {
		in := "district,n,p,k,ph,temperature,humidity,rainfall\n" +
			"pune,80,40,40," + v + ",24,60,700\n"
		_, err := ReadCSV(strings.NewReader(in))
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "row 2", v)
		assert.Contains(t, err.Error(), "is not a number", v)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	sheet := x.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, x.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, x.SaveAs(path))
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.xlsx")
	writeWorkbook(t, path, [][]any{
		{"District", "N", "P", "K", "ph", "Temperature", "Humidity", "Rainfall"},
		{"Ludhiana", 110, 45, 40, 7.1, 22, 60, 700},
		{"Amritsar", 95.5, 38, 42, 7.4, 21, 58, 650},
	})

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ludhiana", rows[0].District)
	assert.Equal(t, 110.0, rows[0].N)
	assert.Equal(t, 95.5, rows[1].N)
	assert.Equal(t, 7.4, rows[1].PH)
}

func TestLoad_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.CSV")
	require.NoError(t, os.WriteFile(path, []byte("district,n,p,k,ph,temperature,humidity,rainfall\npune,1,2,3,4,5,6,7\n"), 0o644))
	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7.0, rows[0].Rainfall)
}

func TestLoad_UnsupportedAndMissing(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "soil.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	_, err := Load(txt)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(filepath.Join(dir, "nope.csv"))
	assert.Error(t, err)
}
