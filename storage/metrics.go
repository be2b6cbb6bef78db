package storage

import "github.com/prometheus/client_golang/prometheus"

type storeMetrics struct {
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	blocksLoaded prometheus.Counter
	blocksStored prometheus.Counter
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
}

func newStoreMetrics() *storeMetrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "betree",
			Subsystem: "store",
			Name:      name,
			Help:      help,
		})
	}

	return &storeMetrics{
		cacheHits:    counter("cache_hits_total", "Block reads served from the decoded-block cache."),
		cacheMisses:  counter("cache_misses_total", "Block reads that had to hit the backing store."),
		blocksLoaded: counter("blocks_loaded_total", "Blocks fetched and decoded from the backing store."),
		blocksStored: counter("blocks_stored_total", "Blocks encoded and written to the backing store."),
		bytesRead:    counter("bytes_read_total", "Serialized bytes fetched from the backing store."),
		bytesWritten: counter("bytes_written_total", "Serialized bytes written to the backing store."),
	}
}

func (m *storeMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.cacheHits, m.cacheMisses,
		m.blocksLoaded, m.blocksStored,
		m.bytesRead, m.bytesWritten,
	}
}
