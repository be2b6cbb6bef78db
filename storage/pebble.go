package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const instanceMetaKey = "meta:instance"

type pebbleMeta struct {
	InstanceID uuid.UUID `msgpack:"instance_id"`
}

// PebbleStore keeps blocks in a pebble database, one record per block
// keyed by content address, plus a meta record carrying the store's
// instance id.
type PebbleStore struct {
	db         *pebble.DB
	instanceID uuid.UUID
}

func OpenPebble(dir string) (*PebbleStore, error) {
	opts := pebble.Options{
		MemTableSize: 64 << 20,
	}
	db, err := pebble.Open(dir, &opts)
	if err != nil {
		return nil, err
	}

	s := &PebbleStore{db: db}
	if err := s.loadOrInitMeta(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PebbleStore) loadOrInitMeta() error {
	data, closer, err := s.db.Get([]byte(instanceMetaKey))
	if err == nil {
		var meta pebbleMeta
		err = msgpack.Unmarshal(data, &meta)
		closer.Close()
		if err != nil {
			return fmt.Errorf("failed to decode store meta: %w", err)
		}
		s.instanceID = meta.InstanceID
		return nil
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}

	s.instanceID = uuid.New()
	data, err = msgpack.Marshal(&pebbleMeta{InstanceID: s.instanceID})
	if err != nil {
		return err
	}
	return s.db.Set([]byte(instanceMetaKey), data, pebble.Sync)
}

func (s *PebbleStore) InstanceID() uuid.UUID {
	return s.instanceID
}

func blockKey(mac MAC) []byte {
	return []byte(fmt.Sprintf("block:%s", mac))
}

func (s *PebbleStore) Get(mac MAC) ([]byte, error) {
	data, closer, err := s.db.Get(blockKey(mac))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ret := make([]byte, len(data))
	copy(ret, data)
	closer.Close()

	return ret, nil
}

func (s *PebbleStore) Put(mac MAC, data []byte) error {
	return s.db.Set(blockKey(mac), data, pebble.NoSync)
}

func (s *PebbleStore) Has(mac MAC) (bool, error) {
	_, closer, err := s.db.Get(blockKey(mac))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
