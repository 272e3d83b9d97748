package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sellers-dashboard/internal/models"
)

var salesHeader = []any{"NAME", "LASTNAME", "REGION", "SOLD UNITS", "TOTAL SALES", "SALES AVERAGE"}

// createTempXLSX writes rows to the first sheet of a new workbook.
func createTempXLSX(t *testing.T, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sellers.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_ValidData(t *testing.T) {
	path := createTempXLSX(t,
		salesHeader,
		[]any{"Ana", "Ruiz", "North", 10, 1000, 100},
		[]any{" Luis ", "Paz", "South", 4, 400.5, 100.125},
	)

	records, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "Ana Ruiz", records[0].Vendor)
	assert.Equal(t, "North", records[0].Region)
	assert.Equal(t, 10, records[0].SoldUnits)
	assert.Equal(t, models.Number(1000), records[0].TotalSales)
	assert.Equal(t, models.Number(100), records[0].SalesAverage)

	assert.Equal(t, 3, records[1].Row)
	assert.Equal(t, "Luis", records[1].Name)
	assert.Equal(t, "Luis Paz", records[1].Vendor)
	assert.Equal(t, models.Number(400.5), records[1].TotalSales)
	assert.Equal(t, models.Number(100.125), records[1].SalesAverage)
}

func TestLoad_NormalizesHeaders(t *testing.T) {
	path := createTempXLSX(t,
		[]any{"Sales Average", " name", "lastname ", "Region", "sold   units", "Total Sales", "NOTES"},
		[]any{50, "Eva", "Sol", "East", 3, 150, "ignored"},
	)

	records, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Eva Sol", records[0].Vendor)
	assert.Equal(t, 3, records[0].SoldUnits)
	assert.Equal(t, models.Number(150), records[0].TotalSales)
	assert.Equal(t, models.Number(50), records[0].SalesAverage)
}

func TestLoad_SkipsBlankRows(t *testing.T) {
	path := createTempXLSX(t,
		salesHeader,
		[]any{"Ana", "Ruiz", "North", 1, 10, 10},
		[]any{"", "", "", "", "", ""},
		[]any{"Eva", "Sol", "East", 2, 20, 10},
	)

	records, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, 4, records[1].Row)
}

func TestLoad_BlankNumericCells(t *testing.T) {
	path := createTempXLSX(t,
		salesHeader,
		[]any{"Ana", "Ruiz", "North", 10, 1000, 100},
		[]any{"Luis", "Paz", "South", 4, 400, nil},
		[]any{"Eva", "Sol", "East", nil, nil, 300},
	)

	records, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.Number(400), records[1].TotalSales)
	assert.False(t, records[1].SalesAverage.Defined())

	assert.Equal(t, 0, records[2].SoldUnits)
	assert.False(t, records[2].TotalSales.Defined())
	assert.Equal(t, models.Number(300), records[2].SalesAverage)

	kpis := ComputeKPIs(records)
	assert.Equal(t, 1400.0, kpis.TotalSales)
	assert.Equal(t, 14, kpis.TotalUnits)
	assert.Equal(t, models.Average(200), kpis.AvgSales)
	assert.Equal(t, 3, kpis.VendorCount)
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := createTempXLSX(t, salesHeader)

	records, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want error
	}{
		{
			name: "missing column",
			rows: [][]any{{"NAME", "LASTNAME", "REGION", "SOLD UNITS", "TOTAL SALES"}},
			want: ErrMissingColumn,
		},
		{
			name: "non numeric total",
			rows: [][]any{salesHeader, {"Ana", "Ruiz", "North", 1, "lots", 10}},
			want: ErrInvalidNumber,
		},
		{
			name: "fractional units",
			rows: [][]any{salesHeader, {"Ana", "Ruiz", "North", 2.5, 10, 10}},
			want: ErrInvalidNumber,
		},
		{
			name: "non numeric average",
			rows: [][]any{salesHeader, {"Ana", "Ruiz", "North", 1, 10, "n/a"}},
			want: ErrInvalidNumber,
		},
		{
			name: "empty vendor",
			rows: [][]any{salesHeader, {"", "", "North", 1, 10, 10}},
			want: ErrEmptyVendor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTempXLSX(t, tt.rows...)

			_, err := Load(context.Background(), path, LoadOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var loadErr *DataLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, path, loadErr.Path)
		})
	}
}

func TestLoad_ReportsFirstBadRow(t *testing.T) {
	path := createTempXLSX(t,
		salesHeader,
		[]any{"Ana", "Ruiz", "North", 1, 10, 10},
		[]any{"Eva", "Sol", "East", "x", 20, 10},
		[]any{"Bo", "Ek", "West", 1, "y", 10},
	)

	_, err := Load(context.Background(), path, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3 column SOLD UNITS")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), LoadOptions{})

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "open workbook", loadErr.Reason)
}

func TestLoad_SheetSelection(t *testing.T) {
	path := createTempXLSX(t, salesHeader, []any{"Ana", "Ruiz", "North", 1, 10, 10})

	records, err := Load(context.Background(), path, LoadOptions{Sheet: "Sheet1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = Load(context.Background(), path, LoadOptions{Sheet: "Q3"})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoad_CancelledContext(t *testing.T) {
	path := createTempXLSX(t, salesHeader, []any{"Ana", "Ruiz", "North", 1, 10, 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path, LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"NAME":           "NAME",
		"  sold\tunits ": "SOLD UNITS",
		"Total    Sales": "TOTAL SALES",
		"sales average":  "SALES AVERAGE",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeHeader(in), "normalizeHeader(%q)", in)
	}
}
