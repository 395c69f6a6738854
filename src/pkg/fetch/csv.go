package fetch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
)

// ErrParse marks a data file that isn't the CSV we expect.
var ErrParse = errors.New("parse error")

// Required CSV header names.
const (
	ColumnDate  = "Date"
	ColumnGoal  = "Goal"
	ColumnFunds = "Funds"
)

/*
ParseCSV reads one month's data file.

Columns are found by header name, extra columns are ignored. Rows keep file
order. A header-only file gives a table with no rows; deciding whether that is
acceptable is up to the aggregator.
*/
func ParseCSV(month months.ID, url string, reader io.Reader) (monthTable funds.MonthTable, e *xerr.Error) {
	monthTable = funds.MonthTable{Month: month, URL: url, Rows: make([]funds.Row, 0)}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, readErr := csvReader.ReadAll()
	if readErr != nil {
		e = xerr.NewErrorECOL(fmt.Errorf("%w: %w", ErrParse, readErr), "read monthly CSV", "url", url)
		return monthTable, e
	}
	if len(records) == 0 {
		e = xerr.NewErrorECOL(fmt.Errorf("%w: no header row", ErrParse), "read monthly CSV", "url", url)
		return monthTable, e
	}

	columnIndexes, e := findColumns(records[0], url)
	if e != nil {
		return monthTable, e
	}

	for recordIndex, record := range records[1:] {
		lineNumber := recordIndex + 2

		row, rowErr := parseRow(month, record, columnIndexes)
		if rowErr != nil {
			context := fmt.Sprintf("url '%s', line %d", url, lineNumber)
			e = xerr.NewError(fmt.Errorf("%w: %w", ErrParse, rowErr), "parse monthly CSV row", context)
			return monthTable, e
		}
		monthTable.Rows = append(monthTable.Rows, row)
	}

	tl.Log(tl.Detailed, palette.CyanDim, "Parsed %s rows for %s", len(monthTable.Rows), month)

	return monthTable, e
}

/*
findColumns maps the required header names to their positions.
*/
func findColumns(header []string, url string) (columnIndexes map[string]int, e *xerr.Error) {
	columnIndexes = make(map[string]int)
	for index, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columnIndexes[strings.TrimSpace(name)] = index
	}

	missing := make([]string, 0)
	for _, required := range []string{ColumnDate, ColumnGoal, ColumnFunds} {
		if _, exists := columnIndexes[required]; !exists {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		err := fmt.Errorf("%w: missing columns %s", ErrParse, strings.Join(missing, ", "))
		e = xerr.NewErrorECOL(err, "find required CSV columns", "url", url)
		return columnIndexes, e
	}

	return columnIndexes, e
}

func parseRow(month months.ID, record []string, columnIndexes map[string]int) (row funds.Row, err error) {
	row.Month = month
	row.Date = strings.TrimSpace(record[columnIndexes[ColumnDate]])
	if row.Date == "" {
		return row, fmt.Errorf("empty %s value", ColumnDate)
	}

	timestamp, ok := parseTimestamp(row.Date)
	if ok {
		row.Timestamp = timestamp
	} else {
		tl.Log(tl.Warning, palette.PurpleBright, "Unrecognized timestamp '%s' in %s, keeping it as text", row.Date, month)
	}

	row.Goal, err = parseAmount(record[columnIndexes[ColumnGoal]])
	if err != nil {
		return row, fmt.Errorf("%s: %w", ColumnGoal, err)
	}

	row.Funds, err = parseAmount(record[columnIndexes[ColumnFunds]])
	if err != nil {
		return row, fmt.Errorf("%s: %w", ColumnFunds, err)
	}

	return row, nil
}

/*
parseAmount accepts plain numbers and currency-formatted ones ("$1,234.50").
*/
func parseAmount(raw string) (amount decimal.Decimal, err error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	if cleaned == "" {
		return amount, fmt.Errorf("empty amount")
	}

	amount, err = decimal.NewFromString(cleaned)
	if err != nil {
		return amount, fmt.Errorf("invalid amount '%s'", raw)
	}
	return amount, nil
}

/*
parseTimestamp tries the layouts seen in the data files and returns (time, ok).
*/
func parseTimestamp(raw string) (parsed time.Time, ok bool) {
	candidates := []string{
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05.999999-07:00",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}

	for _, layout := range candidates {
		value, parseErr := time.Parse(layout, raw)
		if parseErr == nil {
			return value, true
		}
	}

	return parsed, false
}
