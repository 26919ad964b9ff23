package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-bridge/internal/server"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// PollResult is one successful read of the server's /monitor endpoint.
type PollResult struct {
	Response      types.MonitorResponse
	Ping          time.Duration
	ServerVersion string
}

// Poller reads the server status.
type Poller interface {
	Fetch(ctx context.Context) (PollResult, error)
}

// MonitorClient polls /monitor as an internal ping so the dashboard never inflates the counters.
type MonitorClient struct {
	http *resty.Client
	url  string
}

// NewMonitorClient creates a MonitorClient. timeout bounds every poll.
func NewMonitorClient(url string, timeout time.Duration) *MonitorClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader(server.InternalPingHeader, "true").
		SetHeader("Accept", "application/json")

	return &MonitorClient{
		http: client,
		url:  url,
	}
}

// URL returns the polled endpoint.
func (c *MonitorClient) URL() string {
	return c.url
}

// Fetch performs one poll.
func (c *MonitorClient) Fetch(ctx context.Context) (PollResult, error) {
	var (
		body    types.MonitorResponse
		failure server.ErrorResponse
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetError(&failure).
		Get(c.url)
	if err != nil {
		return PollResult{}, errors.Wrapf(errors.ErrCodeMonitorUnreachable, err, "could not reach %s", c.url)
	}

	// the server is up but its allow-list rejects this machine
	if resp.StatusCode() == http.StatusForbidden {
		reason := failure.Error
		if reason == "" {
			reason = "origin is not allowed"
		}

		return PollResult{}, errors.Newf(errors.ErrCodeUnauthorized, "server refused the dashboard: %s", reason)
	}

	if resp.IsError() {
		return PollResult{}, errors.Newf(errors.ErrCodeMonitorBadResponse, "%s answered %d", c.url, resp.StatusCode())
	}

	if body.State == "" {
		return PollResult{}, errors.Newf(errors.ErrCodeMonitorBadResponse, "%s returned no monitor state", c.url)
	}

	return PollResult{
		Response:      body,
		Ping:          resp.Time(),
		ServerVersion: resp.Header().Get(version.HeaderName),
	}, nil
}
