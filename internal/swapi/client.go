// Package swapi reads the paginated starship catalog of the public Star Wars API.
package swapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"starship-dashboard/internal/logging"
	"starship-dashboard/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "swapi"

// Options configures a Client.
type Options struct {
	// Timeout bounds each page request. Zero disables the bound.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive transport failures that
	// opens the circuit. Zero means 3.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open. Zero means 1 minute.
	BreakerCooldown time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client walks paginated listings.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[fetchResult]
	log     zerolog.Logger
}

// Summary describes how a Walk ended.
type Summary struct {
	Pages int
	// StopStatus is the non-200 status that ended pagination, or 0.
	StopStatus int
}

type fetchResult struct {
	page   *Page
	status int
}

// NewClient builds a Client.
func NewClient(opts Options, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(opts.Timeout)
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	cooldown := opts.BreakerCooldown
	if cooldown == 0 {
		cooldown = time.Minute
	}

	log = logging.Component(log, "swapi")
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[fetchResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A malformed body still proves the upstream is reachable.
		IsSuccessful: func(err error) bool {
			var de *DecodeError
			return err == nil || errors.As(err, &de)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{http: httpClient, breaker: cb, log: log}
}

// NewHTTPClient returns a client with dial and header timeouts. A zero timeout
// leaves the overall request unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Walk fetches startURL and every following page, calling fn for each one.
//
// A non-200 response ends pagination without error. Transport failures return
// *FetchError and undecodable bodies *DecodeError; errors from fn are returned
// unchanged. In every error case no further pages are requested.
func (c *Client) Walk(ctx context.Context, startURL string, fn func(*Page) error) (Summary, error) {
	var sum Summary
	seen := make(map[string]struct{})

	for endpoint := startURL; endpoint != ""; {
		if _, dup := seen[endpoint]; dup {
			c.log.Warn().Str("url", endpoint).Msg("pagination loops back to a visited page, stopping")
			return sum, nil
		}
		seen[endpoint] = struct{}{}

		res, err := c.fetch(ctx, endpoint)
		if err != nil {
			return sum, err
		}
		if res.page == nil {
			sum.StopStatus = res.status
			c.log.Warn().Int("status", res.status).Str("url", endpoint).
				Msg("upstream returned non-success status, treating as end of pagination")
			return sum, nil
		}

		sum.Pages++
		c.log.Debug().Str("url", endpoint).Int("records", len(res.page.Results)).Msg("fetched page")
		if err := fn(res.page); err != nil {
			return sum, err
		}
		endpoint = res.page.NextURL()
	}
	return sum, nil
}

func (c *Client) fetch(ctx context.Context, url string) (fetchResult, error) {
	res, err := c.breaker.Execute(func() (fetchResult, error) {
		return c.doFetch(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues("rejected").Inc()
		return fetchResult{}, &FetchError{URL: url, Err: err}
	}
	return res, err
}

func (c *Client) doFetch(ctx context.Context, url string) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchResult{}, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "starship-dashboard/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return fetchResult{}, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.UpstreamRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fetchResult{status: resp.StatusCode}, nil
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fetchResult{status: resp.StatusCode}, &DecodeError{URL: url, Err: err}
	}
	return fetchResult{page: &page, status: resp.StatusCode}, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
