package fetch

import (
	"context"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"golang.org/x/sync/errgroup"

	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
	"funding-report/src/pkg/util"
)

// MaxParallelism bounds concurrent downloads regardless of configuration.
const MaxParallelism = 8

/*
FetchAll downloads every month and returns the tables in the order of ids.

Each download writes only its own slot of the result slice, so the output order
never depends on which request finishes first. The first failure cancels the
remaining downloads and is returned; no partial result is produced.
*/
func (client *Client) FetchAll(ctx context.Context, ids []months.ID) (tables []funds.MonthTable, e *xerr.Error) {
	parallelism := util.Clamp(client.Parallelism, 1, MaxParallelism)
	tl.Log(
		tl.Notice, palette.BlueBold, "%s %s monthly files from '%s' (parallelism %s)",
		"Fetching", len(ids), client.BaseURL, parallelism,
	)

	results := make([]funds.MonthTable, len(ids))
	failures := make([]*xerr.Error, len(ids))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for index, month := range ids {
		group.Go(func() error {
			monthTable, fetchErr := client.FetchMonth(groupCtx, month)
			if fetchErr != nil {
				failures[index] = fetchErr
				return fetchErr.Err
			}
			results[index] = monthTable
			return nil
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return nil, firstFailure(failures, waitErr)
	}

	tl.Log(tl.Notice1, palette.GreenBold, "Fetched %s monthly files", len(results))
	return results, e
}

/*
firstFailure picks the failure that stopped the group.

Later downloads usually fail with a cancelled context once the group stops;
the root cause is the one errgroup reported.
*/
func firstFailure(failures []*xerr.Error, groupErr error) *xerr.Error {
	var fallback *xerr.Error
	for _, failure := range failures {
		if failure == nil {
			continue
		}
		if failure.Err == groupErr {
			return failure
		}
		if fallback == nil {
			fallback = failure
		}
	}
	return fallback
}
