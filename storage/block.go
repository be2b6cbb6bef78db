package storage

import (
	"fmt"

	"github.com/PlakarKorp/go-betree/betree"
	"github.com/PlakarKorp/go-betree/logging"
	"github.com/PlakarKorp/go-betree/resources"
	"github.com/PlakarKorp/go-betree/versioning"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TREE_ROOT_VERSION = "1.0.0"
	BLOCK_VERSION     = "1.0.0"
)

func init() {
	versioning.Register(resources.RT_TREE_ROOT, versioning.FromString(TREE_ROOT_VERSION))
	versioning.Register(resources.RT_NODE_BLOCK, versioning.FromString(BLOCK_VERSION))
	versioning.Register(resources.RT_LEAF_BLOCK, versioning.FromString(BLOCK_VERSION))
}

// envelope frames every stored record with its resource kind and
// on-disk format version.
type envelope struct {
	Resource resources.Resource `msgpack:"resource"`
	Version  versioning.Version `msgpack:"version"`
	Payload  msgpack.RawMessage `msgpack:"payload"`
}

type rootRecord struct {
	Root MAC `msgpack:"root"`
}

// BlockRef addresses a block through one of two arms: a decoded
// in-memory view, or a content address to load on demand.
type BlockRef[K any] struct {
	cached *betree.Block[K, MAC]
	stored MAC
}

func CachedRef[K any](b *betree.Block[K, MAC]) BlockRef[K] {
	return BlockRef[K]{cached: b}
}

func StoredRef[K any](mac MAC) BlockRef[K] {
	return BlockRef[K]{stored: mac}
}

func (r BlockRef[K]) IsCached() bool {
	return r.cached != nil
}

// BlockStore is the typed layer over a raw Storer: msgpack codecs with
// versioned envelopes, a decoded-block cache in front of loads, and
// counters for the traffic both sides of the cache.  It implements the
// engine's Storer contract with MAC pointers.
type BlockStore[K any] struct {
	store   Storer
	cache   *blockCache[K]
	logger  *logging.Logger
	metrics *storeMetrics
}

func NewBlockStore[K any](store Storer, cacheTarget int, logger *logging.Logger) *BlockStore[K] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BlockStore[K]{
		store:   store,
		cache:   newBlockCache[K](cacheTarget),
		logger:  logger,
		metrics: newStoreMetrics(),
	}
}

// Get loads and decodes the block addressed by mac, serving from the
// decoded-block cache when possible.
func (s *BlockStore[K]) Get(mac MAC) (*betree.Block[K, MAC], error) {
	if b, ok := s.cache.get(mac); ok {
		s.metrics.cacheHits.Inc()
		return b, nil
	}
	s.metrics.cacheMisses.Inc()

	data, err := s.store.Get(mac)
	if err != nil {
		return nil, fmt.Errorf("failed to load block %s: %w", mac, err)
	}
	s.metrics.blocksLoaded.Inc()
	s.metrics.bytesRead.Add(float64(len(data)))

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, mac, err)
	}
	if env.Resource != resources.RT_NODE_BLOCK && env.Resource != resources.RT_LEAF_BLOCK {
		return nil, fmt.Errorf("%w: %s holds a %s, not a subtree block", ErrCorrupt, mac, env.Resource)
	}
	if current := versioning.GetCurrentVersion(env.Resource); env.Version.Major() != current.Major() {
		return nil, fmt.Errorf("%w: %s has version %s, current is %s", ErrCorrupt, mac, env.Version, current)
	}

	b := &betree.Block[K, MAC]{}
	if err := msgpack.Unmarshal(env.Payload, b); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, mac, err)
	}
	if b.IsLeaf() != (env.Resource == resources.RT_LEAF_BLOCK) {
		return nil, fmt.Errorf("%w: %s shape disagrees with its %s tag", ErrCorrupt, mac, env.Resource)
	}

	s.logger.Trace("storage", "loaded %s %s", env.Resource, mac)
	s.cache.put(mac, b)
	return b, nil
}

// Put encodes a block, addresses it by the blake3 sum of its serialized
// form and writes it out.  The returned MAC is the block's identity.
func (s *BlockStore[K]) Put(b *betree.Block[K, MAC]) (MAC, error) {
	res := resources.RT_NODE_BLOCK
	if b.IsLeaf() {
		res = resources.RT_LEAF_BLOCK
	}

	data, err := s.encode(res, b)
	if err != nil {
		return MAC{}, err
	}
	mac := MACFromBytes(data)
	if err := s.store.Put(mac, data); err != nil {
		return MAC{}, fmt.Errorf("failed to store block %s: %w", mac, err)
	}
	s.metrics.blocksStored.Inc()
	s.metrics.bytesWritten.Add(float64(len(data)))

	s.cache.put(mac, b)
	return mac, nil
}

func (s *BlockStore[K]) encode(res resources.Resource, payload interface{}) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&envelope{
		Resource: res,
		Version:  versioning.GetCurrentVersion(res),
		Payload:  raw,
	})
}

// Resolve is the identity on the cached arm and a load on the stored
// arm.
func (s *BlockStore[K]) Resolve(ref BlockRef[K]) (*betree.Block[K, MAC], error) {
	if ref.cached != nil {
		return ref.cached, nil
	}
	return s.Get(ref.stored)
}

func (s *BlockStore[K]) Collectors() []prometheus.Collector {
	return s.metrics.collectors()
}

func (s *BlockStore[K]) Close() error {
	return s.store.Close()
}

// PersistTree writes the tree into the store post-order and then a root
// record referencing it, returning the root record's address.  The old
// tree and any previously persisted roots remain intact: blocks shared
// between snapshots deduplicate by content address.
func PersistTree[K any](s *BlockStore[K], t *betree.Tree[K]) (MAC, error) {
	root, err := betree.Persist[K, MAC](t, s)
	if err != nil {
		return MAC{}, err
	}

	data, err := s.encode(resources.RT_TREE_ROOT, &rootRecord{Root: root})
	if err != nil {
		return MAC{}, err
	}
	mac := MACFromBytes(data)
	if err := s.store.Put(mac, data); err != nil {
		return MAC{}, fmt.Errorf("failed to store tree root %s: %w", mac, err)
	}
	s.metrics.blocksStored.Inc()
	s.metrics.bytesWritten.Add(float64(len(data)))

	s.logger.Trace("storage", "persisted tree root %s", mac)
	return mac, nil
}

// LoadTree inflates the tree referenced by a root record previously
// written with PersistTree.
func LoadTree[K any](s *BlockStore[K], config *betree.Config, compare func(K, K) int, mac MAC) (*betree.Tree[K], error) {
	data, err := s.store.Get(mac)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree root %s: %w", mac, err)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, mac, err)
	}
	if env.Resource != resources.RT_TREE_ROOT {
		return nil, fmt.Errorf("%w: %s holds a %s, not a tree root", ErrCorrupt, mac, env.Resource)
	}
	if current := versioning.GetCurrentVersion(env.Resource); env.Version.Major() != current.Major() {
		return nil, fmt.Errorf("%w: %s has version %s, current is %s", ErrCorrupt, mac, env.Version, current)
	}

	var rec rootRecord
	if err := msgpack.Unmarshal(env.Payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, mac, err)
	}
	return betree.FromStorage[K, MAC](config, compare, s, rec.Root)
}
