package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// DefaultPublicIPURL is the ipify endpoint used for the public address lookup.
const DefaultPublicIPURL = "https://api.ipify.org?format=json"

// IPResolver looks up the public address of this machine.
type IPResolver interface {
	Lookup(ctx context.Context) (string, error)
}

type ipifyResponse struct {
	IP string `json:"ip"`
}

// PublicIPResolver asks ipify for the public address. Two attempts, each bounded by the client timeout.
type PublicIPResolver struct {
	http     *resty.Client
	url      string
	attempts uint
	delay    time.Duration
}

// NewPublicIPResolver creates a PublicIPResolver. An empty url uses DefaultPublicIPURL.
func NewPublicIPResolver(url string, timeout time.Duration) *PublicIPResolver {
	if url == "" {
		url = DefaultPublicIPURL
	}

	return &PublicIPResolver{
		http:     resty.New().SetTimeout(timeout),
		url:      url,
		attempts: 2,
		delay:    200 * time.Millisecond,
	}
}

// Lookup returns the public IP.
func (r *PublicIPResolver) Lookup(ctx context.Context) (string, error) {
	var ip string

	retrier := retry.New(
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
	)

	err := retrier.Do(func() error {
		var body ipifyResponse

		resp, err := r.http.R().SetContext(ctx).SetResult(&body).Get(r.url)
		if err != nil {
			return err
		}

		if resp.IsError() {
			return errors.Newf(errors.ErrCodePublicIPUnavailable, "%s answered %d", r.url, resp.StatusCode())
		}

		ip = strings.TrimSpace(body.IP)
		if ip == "" {
			return errors.Newf(errors.ErrCodePublicIPUnavailable, "%s returned no address", r.url)
		}

		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePublicIPUnavailable, "public IP lookup failed", err)
	}

	return ip, nil
}
