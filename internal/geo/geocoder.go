package geo

import (
	"context"
	"errors"
	"fmt"
)

// Coordinates is a resolved point on the globe.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ErrNotFound is returned when a provider answered but had no match for
// the address. Network and decoding failures are returned as-is.
var ErrNotFound = errors.New("location not found")

// Provider resolves a free-form address to coordinates.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// Chain tries providers in fixed priority order, each at most once per
// call. Any failure of one tier (network error, bad status, empty result)
// moves on to the next; only exhaustion of all tiers is a failure.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Resolve(ctx context.Context, address string) (Coordinates, error) {
	var lastErr error
	for _, p := range c.providers {
		coords, err := p.Resolve(ctx, address)
		if err == nil {
			return coords, nil
		}
		lastErr = fmt.Errorf("%s: %w", p.Name(), err)
	}
	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return Coordinates{}, fmt.Errorf("all geocoding providers exhausted: %w", lastErr)
}
