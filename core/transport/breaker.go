package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/liuran001/hymusic/core"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("transport: circuit open")

// errServerStatus marks a 5xx response as a breaker failure while the
// response itself is still returned to the caller.
var errServerStatus = errors.New("server status")

func newBreaker(name string, failures int, logger core.Logger) *gobreaker.CircuitBreaker {
	if name == "" {
		name = "transport"
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if logger != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	return gobreaker.NewCircuitBreaker(settings)
}

func (c *Client) execute(req *retryablehttp.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.http.Do(req)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, err
	})
	resp, _ := out.(*http.Response)
	switch {
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, errors.Join(ErrCircuitOpen, err)
	}
	return resp, err
}
