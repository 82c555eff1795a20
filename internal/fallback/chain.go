// pattern: Functional Core

// Package fallback runs a capability through an ordered list of
// interchangeable providers until one of them succeeds.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"gitfinder/internal/logging"
)

// ErrUnavailable is returned by a provider that cannot run at all in the
// current environment (tool missing, feature disabled). It is expected and
// only logged at debug level.
var ErrUnavailable = errors.New("provider unavailable")

// Unavailable wraps ErrUnavailable with a reason.
func Unavailable(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, reason)
}

// Provider is one tier of a capability.
type Provider[In, Out any] struct {
	Name string
	Run  func(ctx context.Context, in In) (Out, error)
}

// Chain tries its providers in order.
type Chain[In, Out any] struct {
	providers []Provider[In, Out]
	logger    *logging.ScopedLogger
}

// New creates a chain from providers in preference order.
func New[In, Out any](logger *logging.ScopedLogger, providers ...Provider[In, Out]) *Chain[In, Out] {
	return &Chain[In, Out]{providers: providers, logger: logger}
}

// Names returns provider names in preference order.
func (c *Chain[In, Out]) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name
	}
	return names
}

// Run returns the output of the first provider that succeeds, together with
// that provider's name. If every provider fails, the joined errors are returned.
func (c *Chain[In, Out]) Run(ctx context.Context, in In) (Out, string, error) {
	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out, err := p.Run(ctx, in)
		if err == nil {
			c.logger.Debug("provider succeeded", "provider", p.Name)
			return out, p.Name, nil
		}

		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug("provider unavailable", "provider", p.Name, "reason", err.Error())
		} else {
			c.logger.Warn("provider failed, falling back", "provider", p.Name, "error", err.Error())
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}

	var zero Out
	if len(errs) == 0 {
		return zero, "", ErrUnavailable
	}
	return zero, "", errors.Join(errs...)
}
