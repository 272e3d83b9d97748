package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"sellers-dashboard/internal/models"
)

const (
	parseChunk = 1024
	maxWorkers = 10
)

const (
	ColName         = "NAME"
	ColLastName     = "LASTNAME"
	ColRegion       = "REGION"
	ColSoldUnits    = "SOLD UNITS"
	ColTotalSales   = "TOTAL SALES"
	ColSalesAverage = "SALES AVERAGE"
)

// RequiredColumns are the header names a sales sheet must carry.
var RequiredColumns = []string{ColName, ColLastName, ColRegion, ColSoldUnits, ColTotalSales, ColSalesAverage}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptySheet    = errors.New("sheet has no header row")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptyVendor   = errors.New("vendor name is empty")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// DataLoadError reports a spreadsheet that cannot back the dashboard.
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

type LoadOptions struct {
	// Sheet selects the worksheet; empty means the first one.
	Sheet string
}

type parsedRow struct {
	record models.Record
	skip   bool
	err    error
}

// Load reads sales records from an xlsx workbook. Header cells are matched
// after trimming, collapsing inner whitespace and upper-casing. Blank amount
// cells load as missing values; text in a numeric column fails the load.
func Load(ctx context.Context, path string, opts LoadOptions) ([]models.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "open workbook", Err: err}
	}
	defer f.Close()

	sheet := opts.Sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, &DataLoadError{Path: path, Reason: "workbook has no sheets", Err: ErrSheetNotFound}
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, &DataLoadError{Path: path, Reason: fmt.Sprintf("sheet %q", sheet), Err: ErrSheetNotFound}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "read rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, &DataLoadError{Path: path, Reason: fmt.Sprintf("sheet %q", sheet), Err: ErrEmptySheet}
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "header", Err: err}
	}

	parsed, err := parseRows(ctx, rows[1:], columns)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "parse rows", Err: err}
	}

	records := make([]models.Record, 0, len(parsed))
	for _, p := range parsed {
		if p.err != nil {
			return nil, &DataLoadError{Path: path, Reason: "parse rows", Err: p.err}
		}
		if !p.skip {
			records = append(records, p.record)
		}
	}
	return records, nil
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.Join(strings.Fields(h), " "))
}

// mapColumns returns the cell index of every required column.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(RequiredColumns))
	for i, h := range header {
		name := normalizeHeader(h)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columns, nil
}

// parseRows parses data rows in parallel chunks. The result is index-aligned
// with rows so source order is kept.
func parseRows(ctx context.Context, rows [][]string, columns map[string]int) ([]parsedRow, error) {
	parsed := make([]parsedRow, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += parseChunk {
		end := min(start+parseChunk, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Header is sheet row 1, so data row i sits on row i+2.
				parsed[i] = parseRow(rows[i], columns, i+2)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func parseRow(row []string, columns map[string]int, rowNum int) parsedRow {
	cell := func(col string) string {
		idx := columns[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	blank := true
	for _, col := range RequiredColumns {
		if cell(col) != "" {
			blank = false
			break
		}
	}
	if blank {
		return parsedRow{skip: true}
	}

	name, last := cell(ColName), cell(ColLastName)
	vendor := strings.TrimSpace(name + " " + last)
	if vendor == "" {
		return parsedRow{err: fmt.Errorf("row %d: %w", rowNum, ErrEmptyVendor)}
	}

	units, err := parseUnits(cell(ColSoldUnits))
	if err != nil {
		return parsedRow{err: fmt.Errorf("row %d column %s: %w", rowNum, ColSoldUnits, err)}
	}
	total, err := parseAmount(cell(ColTotalSales))
	if err != nil {
		return parsedRow{err: fmt.Errorf("row %d column %s: %w", rowNum, ColTotalSales, err)}
	}
	avg, err := parseAmount(cell(ColSalesAverage))
	if err != nil {
		return parsedRow{err: fmt.Errorf("row %d column %s: %w", rowNum, ColSalesAverage, err)}
	}

	return parsedRow{record: models.Record{
		Row:          rowNum,
		Name:         name,
		LastName:     last,
		Vendor:       vendor,
		Region:       cell(ColRegion),
		SoldUnits:    units,
		TotalSales:   total,
		SalesAverage: avg,
	}}
}

// parseAmount parses a money cell. A blank cell is a missing value.
func parseAmount(s string) (models.Number, error) {
	if s == "" {
		return models.Missing(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return models.Number(v), nil
}

// parseUnits parses a unit count. Units are only ever summed, so a blank cell
// counts as zero.
func parseUnits(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidNumber, s)
	}
	return int(v), nil
}
