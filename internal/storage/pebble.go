package storage

import (
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/tcfw/ccgenesis/internal/utils/logging"
	"github.com/tcfw/ccgenesis/pkg/storage"
)

const (
	cacheSize = 1 << 20 * 100
)

var (
	_ storage.KV      = (*pebbleKV)(nil)
	_ storage.KVBatch = (*pebbleBatch)(nil)
)

// NewPebbleStorage opens or creates a chain store at repo.
func NewPebbleStorage(repo string) (*storage.KVStore, error) {
	if err := os.MkdirAll(repo, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "creating repo dir")
	}

	db, err := metadataStore(repo)
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata store")
	}

	logging.Entry().WithField("path", repo).Debug("opened pebble store")

	return storage.NewKVStore(&pebbleKV{db}), nil
}

func metadataStore(repo string) (*pebble.DB, error) {
	c := pebble.NewCache(cacheSize)
	defer c.Unref()

	return pebble.Open(repo, &pebble.Options{Cache: c})
}

type pebbleKV struct {
	db *pebble.DB
}

func (p *pebbleKV) Get(key []byte) ([]byte, error) {
	return get(p.db, key)
}

func (p *pebbleKV) Set(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleKV) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return iterate(p.db, prefix, fn)
}

func (p *pebbleKV) NewBatch() storage.KVBatch {
	return &pebbleBatch{p.db.NewIndexedBatch()}
}

func (p *pebbleKV) Close() error {
	return p.db.Close()
}

type pebbleBatch struct {
	b *pebble.Batch
}

func (p *pebbleBatch) Get(key []byte) ([]byte, error) {
	return get(p.b, key)
}

func (p *pebbleBatch) Set(key, value []byte) error {
	return p.b.Set(key, value, nil)
}

func (p *pebbleBatch) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return iterate(p.b, prefix, fn)
}

func (p *pebbleBatch) Commit() error {
	return p.b.Commit(pebble.Sync)
}

func (p *pebbleBatch) Close() error {
	return p.b.Close()
}

func get(r pebble.Reader, key []byte) ([]byte, error) {
	v, done, err := r.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "reading key")
	}
	defer done.Close()

	d := make([]byte, len(v))
	copy(d, v)

	return d, nil
}

func iterate(r pebble.Reader, prefix []byte, fn func(key, value []byte) error) error {
	iter, err := r.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: storage.PrefixUpperBound(prefix),
	})
	if err != nil {
		return errors.Wrap(err, "creating iterator")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}

	return iter.Error()
}
