package providers

import "checkin-importer/internal/structures"

// InstrumentedCache counts hits and misses of the support-contact cache.
type InstrumentedCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *InstrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *InstrumentedCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// NewInstrumentedCacheProvider returns the plain noop cache when caching is
// off so that every lookup is not reported as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, off := inner.(*noopCache); off {
		return inner
	}
	return &InstrumentedCache{
		inner:   inner,
		metrics: metrics,
	}
}
