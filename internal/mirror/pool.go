// Package mirror maintains the ordered list of public audio mirror
// endpoints and runs operations against them with sequential fallback.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/orpheus-player/orpheus/internal/constants"
	"github.com/orpheus-player/orpheus/internal/logger"
)

// ErrExhausted is returned when every endpoint in the pool has failed.
var ErrExhausted = errors.New("all mirrors exhausted")

// Pool is an ordered set of mirror base URLs. Endpoints are tried strictly
// in order, one attempt each; the pool never races endpoints in parallel
// and never retries a failed endpoint within a single operation.
type Pool struct {
	endpoints []string
	client    *http.Client
	log       *logger.Logger
}

// NewPool creates a pool over the given base URLs. A nil client gets a
// default with the per-attempt mirror timeout.
func NewPool(endpoints []string, client *http.Client, log *logger.Logger) *Pool {
	if client == nil {
		client = &http.Client{Timeout: constants.MirrorTimeout}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Pool{
		endpoints: endpoints,
		client:    client,
		log:       log.WithComponent("mirror"),
	}
}

// Endpoints returns the configured base URLs in order.
func (p *Pool) Endpoints() []string {
	return p.endpoints
}

// Client returns the HTTP client used for mirror requests.
func (p *Pool) Client() *http.Client {
	return p.client
}

// Try runs fn against each endpoint in order until one succeeds. Each
// failure is logged with the mirror and stage and the next endpoint is
// tried. When every endpoint fails, the returned error wraps ErrExhausted
// and the last failure.
func Try[T any](ctx context.Context, p *Pool, stage string, fn func(ctx context.Context, endpoint string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for _, endpoint := range p.endpoints {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		lastErr = err
		p.log.WithMirror(endpoint, stage).Warn("mirror attempt failed", "error", err)
	}

	if lastErr == nil {
		return zero, fmt.Errorf("%s: %w: no endpoints configured", stage, ErrExhausted)
	}
	return zero, fmt.Errorf("%s: %w: last error: %w", stage, ErrExhausted, lastErr)
}
