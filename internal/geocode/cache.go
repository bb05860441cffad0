// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wneessen/city-weather/internal/logger"
)

// Store persists geocoding results for a limited time.
type Store interface {
	Get(ctx context.Context, key string) (Address, bool, error)
	Set(ctx context.Context, key string, addr Address, ttl time.Duration) error
}

// CachedGeocoder puts a Store in front of a Geocoder. Found and not-found results are kept
// with separate TTLs, and concurrent lookups of the same query share one upstream request.
type CachedGeocoder struct {
	coder   Geocoder
	store   Store
	log     *logger.Logger
	ttlHit  time.Duration
	ttlMiss time.Duration

	group singleflight.Group
}

func NewCachedGeocoder(coder Geocoder, store Store, log *logger.Logger, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		store:   store,
		log:     log,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Search returns the cached address for query or asks the wrapped Geocoder. Store failures
// are logged and treated like cache misses.
func (c *CachedGeocoder) Search(ctx context.Context, query string) (Address, error) {
	key := newKey(c.coder.Name(), query)

	addr, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("failed to read geocode cache", logger.Err(err), slog.String("key", key))
	}
	if err == nil && ok {
		addr.CacheHit = true
		return addr, nil
	}

	// The shared lookup must outlive the caller that started it, so it runs detached from
	// cancellation. Each caller still stops waiting when its own context ends.
	searchCtx := context.WithoutCancel(ctx)
	resChan := c.group.DoChan(key, func() (any, error) {
		found, err := c.coder.Search(searchCtx, query)
		if err != nil {
			return found, err
		}

		ttl := c.ttlHit
		if !found.AddressFound {
			ttl = c.ttlMiss
		}
		if err = c.store.Set(searchCtx, key, found, ttl); err != nil {
			c.log.Warn("failed to write geocode cache", logger.Err(err), slog.String("key", key))
		}
		return found, nil
	})

	select {
	case <-ctx.Done():
		return Address{}, ctx.Err()
	case res := <-resChan:
		if res.Err != nil {
			return Address{}, res.Err
		}
		return res.Val.(Address), nil
	}
}

// normalizeQuery folds case and whitespace so "  new   York" and "New York" share a key.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func newKey(provider, query string) string {
	return provider + "::" + normalizeQuery(query)
}
