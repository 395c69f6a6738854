package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"golang.org/x/time/rate"

	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
)

// ErrFetch marks a network or HTTP failure while downloading a data file.
var ErrFetch = errors.New("fetch error")

// maxErrorBodyBytes caps how much of a non-200 body ends up in the error context.
const maxErrorBodyBytes = 2048

/*
Client downloads monthly data files.

Requests are paced by Limiter and each one is bounded by HTTPClient.Timeout.
There is no retry: the first failure is returned to the caller.
*/
type Client struct {
	BaseURL     string
	UserAgent   string
	Parallelism int
	HTTPClient  *http.Client
	Limiter     *rate.Limiter
}

/*
NewClient builds a Client from a fetch Config.

A non-positive RequestsPerSecond disables pacing.
*/
func NewClient(fetchConfig Config) *Client {
	limit := rate.Inf
	if fetchConfig.RequestsPerSecond > 0 {
		limit = rate.Limit(fetchConfig.RequestsPerSecond)
	}
	burst := fetchConfig.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		BaseURL:     fetchConfig.BaseURL,
		UserAgent:   fetchConfig.UserAgent,
		Parallelism: fetchConfig.Parallelism,
		HTTPClient:  &http.Client{Timeout: time.Duration(fetchConfig.TimeoutSeconds) * time.Second},
		Limiter:     rate.NewLimiter(limit, burst),
	}
}

/*
URLFor builds the data file URL for a month, e.g. <base>/funds-2022-05.csv.
*/
func URLFor(baseURL string, month months.ID) string {
	return fmt.Sprintf("%s/funds-%s.csv", strings.TrimRight(baseURL, "/"), month)
}

/*
FetchMonth downloads and parses the data file of one month.

Network errors and non-200 responses are ErrFetch, unreadable CSV is ErrParse.
Both carry the URL in the error context.
*/
func (client *Client) FetchMonth(ctx context.Context, month months.ID) (monthTable funds.MonthTable, e *xerr.Error) {
	url := URLFor(client.BaseURL, month)

	waitErr := client.Limiter.Wait(ctx)
	if waitErr != nil {
		e = xerr.NewErrorECOL(fmt.Errorf("%w: %w", ErrFetch, waitErr), "wait for request slot", "url", url)
		return monthTable, e
	}

	tl.Log(tl.Info, palette.Blue, "%s data for %s from '%s'", "Fetching", month, url)
	startTime := time.Now()

	request, requestErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if requestErr != nil {
		e = xerr.NewErrorECOL(fmt.Errorf("%w: %w", ErrFetch, requestErr), "create HTTP request", "url", url)
		return monthTable, e
	}
	request.Header.Set("Accept", "text/csv, text/plain, */*")
	request.Header.Set("Accept-Encoding", "br, gzip")
	if client.UserAgent != "" {
		request.Header.Set("User-Agent", client.UserAgent)
	}

	response, httpErr := client.HTTPClient.Do(request)
	if httpErr != nil {
		e = xerr.NewErrorECOL(fmt.Errorf("%w: %w", ErrFetch, httpErr), "download monthly CSV", "url", url)
		return monthTable, e
	}
	defer response.Body.Close()

	body, e := decodedBody(response, url)
	if e != nil {
		return monthTable, e
	}
	defer body.Close()

	if response.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
		context := fmt.Sprintf("url '%s', body '%s'", url, strings.TrimSpace(string(snippet)))
		e = xerr.NewError(fmt.Errorf("%w: status is '%s'", ErrFetch, response.Status), "download monthly CSV", context)
		return monthTable, e
	}

	monthTable, e = ParseCSV(month, url, body)
	if e != nil {
		return monthTable, e
	}

	tl.Log(
		tl.Info1, palette.Green, "Fetched %s (%s rows, %s encoding) in %s",
		month, len(monthTable.Rows), contentEncoding(response), time.Since(startTime).Round(time.Millisecond),
	)

	return monthTable, e
}

/*
decodedBody wraps the response body according to its Content-Encoding.

Setting Accept-Encoding by hand turns off the transport's transparent gzip,
so both encodings are handled here.
*/
func decodedBody(response *http.Response, url string) (body io.ReadCloser, e *xerr.Error) {
	switch contentEncoding(response) {
	case "br":
		return io.NopCloser(brotli.NewReader(response.Body)), e
	case "gzip":
		gzipReader, gzipErr := gzip.NewReader(response.Body)
		if gzipErr != nil {
			e = xerr.NewErrorECOL(fmt.Errorf("%w: %w", ErrFetch, gzipErr), "open gzip response body", "url", url)
			return nil, e
		}
		return gzipReader, e
	default:
		return io.NopCloser(response.Body), e
	}
}

func contentEncoding(response *http.Response) string {
	encoding := strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding")))
	if encoding == "" {
		return "identity"
	}
	return encoding
}
