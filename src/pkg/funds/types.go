package funds

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"funding-report/src/pkg/months"
)

// ErrDataIntegrity marks data that parsed fine but can't produce a correct report.
var ErrDataIntegrity = errors.New("data integrity error")

/*
Row is one recorded funding snapshot.

Date keeps the timestamp exactly as the CSV has it; exclusion rules and chart
x values use it verbatim. Timestamp is the parsed form of the same value.
*/
type Row struct {
	Month     months.ID       `json:"month"`
	Date      string          `json:"date"`
	Timestamp time.Time       `json:"timestamp"`
	Goal      decimal.Decimal `json:"goal"`
	Funds     decimal.Decimal `json:"funds"`
	NetIncome decimal.Decimal `json:"net_income"`
}

/*
MonthTable is one month's data file, rows in file order.
*/
type MonthTable struct {
	Month months.ID `json:"month"`
	URL   string    `json:"url"`
	Rows  []Row     `json:"rows"`
}

/*
Table is the aggregated report table: one month-end row per month, ascending.
*/
type Table struct {
	Rows []Row `json:"rows"`
}

// With returns a new table with row appended. The receiver is left untouched.
func (table Table) With(row Row) Table {
	rows := slices.Clone(table.Rows)
	rows = append(rows, row)
	return Table{Rows: rows}
}

func (table Table) Len() int {
	return len(table.Rows)
}

// Dates returns the raw Date column.
func (table Table) Dates() []string {
	dates := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		dates = append(dates, row.Date)
	}
	return dates
}

func (table Table) FundsColumn() []decimal.Decimal {
	return table.column(func(row Row) decimal.Decimal { return row.Funds })
}

func (table Table) GoalColumn() []decimal.Decimal {
	return table.column(func(row Row) decimal.Decimal { return row.Goal })
}

func (table Table) NetIncomeColumn() []decimal.Decimal {
	return table.column(func(row Row) decimal.Decimal { return row.NetIncome })
}

func (table Table) column(selectValue func(row Row) decimal.Decimal) []decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(table.Rows))
	for _, row := range table.Rows {
		values = append(values, selectValue(row))
	}
	return values
}
