// Package upstream wraps calls to external HTTP APIs (geocoding, routing) with
// a circuit breaker, response size limits, and per-service metrics.
package upstream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vivu-app/journey-planner/internal/metrics"
)

// ErrUnavailable is returned without contacting the service while its circuit
// breaker is open (or saturated in the half-open state).
var ErrUnavailable = errors.New("upstream unavailable")

// maxBodyBytes caps how much of an upstream response is read into memory.
// Route geometries for long journeys are the largest payloads we see.
const maxBodyBytes = 8 << 20

// StatusError is returned when the service answers with a non-2xx status.
// Body and ContentType hold the raw response so callers can relay it.
type StatusError struct {
	Service     string
	Status      int
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Status)
}

// Client sends requests to one external service.
type Client struct {
	name    string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewClient builds a Client for the service called name.
// Breaker configuration:
//   - opens after 5 consecutive failures, or a 60% failure rate over at least 10 calls
//   - stays open for 30 seconds before letting 3 trial requests through
//   - 4xx answers count as successes: the service is up, the request was bad
func NewClient(name string, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{name: name, http: httpClient, metrics: m, logger: logger}
	m.SetBreakerState(name, 0)

	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			m.SetBreakerState(name, stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Status < http.StatusInternalServerError
			}
			return err == nil
		},
	})

	return c
}

// Name returns the service name used in logs and metrics.
func (c *Client) Name() string {
	return c.name
}

// Do sends req and returns the body of a 2xx response.
// Non-2xx answers become *StatusError; an open breaker yields ErrUnavailable.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("%s: read body: %w", c.name, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{
				Service:     c.name,
				Status:      resp.StatusCode,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        b,
			}
		}
		return b, nil
	})

	switch {
	case err == nil:
		c.metrics.ObserveUpstream(c.name, "success")
		return body, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.ObserveUpstream(c.name, "rejected")
		return nil, fmt.Errorf("%s: %w", c.name, ErrUnavailable)
	default:
		c.metrics.ObserveUpstream(c.name, "failure")
		return nil, err
	}
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
