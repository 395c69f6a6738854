package funds

import (
	"fmt"
	"slices"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/months"
)

// EmergencyFundraiserTimestamp is the month-end snapshot of the November 2023
// emergency fundraiser, kept out of the monthly trend.
const EmergencyFundraiserTimestamp = "2023-11-29 21:01:00-05:00"

/*
ExclusionRules lists month-end rows to drop from the report.

Timestamps match the raw Date value exactly. Months drop whatever month-end row
a month produced, which keeps working if the upstream timestamp format changes.
*/
type ExclusionRules struct {
	Timestamps []string    `json:"timestamps,omitempty"`
	Months     []months.ID `json:"months,omitempty"`
}

// DefaultExclusionRules drops the emergency fundraiser snapshot.
func DefaultExclusionRules() ExclusionRules {
	return ExclusionRules{
		Timestamps: []string{EmergencyFundraiserTimestamp},
		Months:     []months.ID{},
	}
}

/*
Excludes reports whether row is dropped, and which rule matched.
*/
func (rules ExclusionRules) Excludes(row Row) (excluded bool, reason string) {
	if slices.Contains(rules.Timestamps, row.Date) {
		return true, fmt.Sprintf("timestamp '%s'", row.Date)
	}
	if slices.Contains(rules.Months, row.Month) {
		return true, fmt.Sprintf("month '%s'", row.Month)
	}
	return false, ""
}

/*
Aggregate folds the monthly tables into the report table.

For each month it takes the last row in file order, drops it if an exclusion
rule matches, and fills NetIncome. Tables must be in month order. An empty
month table, a repeated month or no tables at all is an ErrDataIntegrity.
*/
func Aggregate(tables []MonthTable, rules ExclusionRules) (table Table, e *xerr.Error) {
	if len(tables) == 0 {
		e = xerr.NewError(fmt.Errorf("%w: no monthly tables", ErrDataIntegrity), "aggregate month-end snapshots", "no completed months to report on")
		return table, e
	}

	seenMonths := make(map[months.ID]bool, len(tables))
	excludedCount := 0

	for _, monthTable := range tables {
		if seenMonths[monthTable.Month] {
			e = xerr.NewErrorECOL(fmt.Errorf("%w: duplicate month", ErrDataIntegrity), "aggregate month-end snapshots", "month", monthTable.Month)
			return Table{}, e
		}
		seenMonths[monthTable.Month] = true

		monthEnd, monthEndErr := MonthEnd(monthTable)
		if monthEndErr != nil {
			return Table{}, monthEndErr
		}

		excluded, reason := rules.Excludes(monthEnd)
		if excluded {
			excludedCount += 1
			tl.Log(tl.Info, palette.Purple, "Excluding month-end snapshot of %s (matched %s)", monthTable.Month, reason)
			continue
		}

		table = table.With(WithNetIncome(monthEnd))
	}

	tl.Log(
		tl.Info1, palette.Green, "Aggregated %s month-end rows from %s months (%s excluded)",
		table.Len(), len(tables), excludedCount,
	)

	return table, e
}

/*
MonthEnd returns the last row of a month table (by file order, not by timestamp).
*/
func MonthEnd(monthTable MonthTable) (row Row, e *xerr.Error) {
	if len(monthTable.Rows) == 0 {
		context := fmt.Sprintf("month '%s', url '%s'", monthTable.Month, monthTable.URL)
		e = xerr.NewError(fmt.Errorf("%w: month table has no rows", ErrDataIntegrity), "select month-end snapshot", context)
		return row, e
	}

	row = monthTable.Rows[len(monthTable.Rows)-1]
	if strings.TrimSpace(string(row.Month)) == "" {
		row.Month = monthTable.Month
	}

	return row, e
}

// WithNetIncome returns row with NetIncome = Funds - Goal.
func WithNetIncome(row Row) Row {
	row.NetIncome = row.Funds.Sub(row.Goal)
	return row
}
