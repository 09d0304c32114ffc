package storage

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ Store = (*KVStore)(nil)
)

// KVStore implements Store over any KV backend. Values are msgpack encoded.
type KVStore struct {
	root KV
	db   KVReadWriter

	inBatch bool
}

func NewKVStore(db KV) *KVStore {
	return &KVStore{root: db, db: db}
}

// Update runs fn against a batch of s. The batch is committed when fn
// returns nil and dropped otherwise.
func (s *KVStore) Update(ctx context.Context, fn func(Store) error) error {
	if s.inBatch {
		return errors.New("nested update")
	}

	batch := s.root.NewBatch()
	defer batch.Close()

	if err := fn(&KVStore{root: s.root, db: batch, inBatch: true}); err != nil {
		return err
	}

	if err := batch.Commit(); err != nil {
		return errors.Wrap(err, "applying batch")
	}

	return nil
}

func (s *KVStore) put(k []byte, obj interface{}) error {
	d, err := msgpack.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "marshalling")
	}

	return s.db.Set(k, d)
}

func (s *KVStore) get(k []byte, obj interface{}) error {
	d, err := s.db.Get(k)
	if err != nil {
		return err
	}

	if err := msgpack.Unmarshal(d, obj); err != nil {
		return errors.Wrap(err, "unmarshalling")
	}

	return nil
}

func (s *KVStore) PutTx(_ context.Context, t *tx.Tx) (tx.TxID, error) {
	id, err := t.ID()
	if err != nil {
		return id, errors.Wrap(err, "computing tx id")
	}

	d, err := t.Marshal()
	if err != nil {
		return id, err
	}

	return id, s.db.Set(typedKey(objectTPrefix, id.String()), d)
}

func (s *KVStore) GetTx(_ context.Context, id tx.TxID) (*tx.Tx, error) {
	d, err := s.db.Get(typedKey(objectTPrefix, id.String()))
	if err != nil {
		return nil, err
	}

	t := &tx.Tx{}
	if err := t.Unmarshal(d); err != nil {
		return nil, errors.Wrap(err, "unmarshalling tx")
	}

	return t, nil
}

// PutBlock stores the block under the content id of its encoding and
// indexes its txs.
func (s *KVStore) PutBlock(_ context.Context, b *Block) (BlockID, error) {
	b.ID = ""

	d, err := msgpack.Marshal(b)
	if err != nil {
		return "", errors.Wrap(err, "marshalling block")
	}

	mh, _, err := tx.Digest(d)
	if err != nil {
		return "", err
	}

	b.ID = BlockID(cid.NewCidV1(cid.Raw, mh).String())

	if err := s.put(typedKey(objectTPrefix, string(b.ID)), b); err != nil {
		return "", errors.Wrap(err, "storing block")
	}

	for _, t := range b.Txs {
		if err := s.db.Set(typedKey(txBlockTPrefix, t), []byte(b.ID)); err != nil {
			return "", errors.Wrap(err, "indexing block tx")
		}
	}

	return b.ID, nil
}

func (s *KVStore) GetBlock(_ context.Context, id BlockID) (*Block, error) {
	b := &Block{}
	if err := s.get(typedKey(objectTPrefix, string(id)), b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *KVStore) GetTxBlock(ctx context.Context, id tx.TxID) (*Block, error) {
	blkID, err := s.db.Get(typedKey(txBlockTPrefix, id.String()))
	if err != nil {
		return nil, err
	}

	b, err := s.GetBlock(ctx, BlockID(blkID))
	if err != nil {
		return nil, errors.Wrap(err, "getting tx block")
	}

	if !b.MayContain(id) {
		return nil, ErrNotFound
	}

	return b, nil
}

func (s *KVStore) PutAccount(_ context.Context, a *Account) error {
	return s.put(typedKey(accountTPrefix, a.Address), a)
}

func (s *KVStore) Account(_ context.Context, address string) (*Account, error) {
	a := &Account{}
	if err := s.get(typedKey(accountTPrefix, address), a); err != nil {
		return nil, err
	}

	if a.Balances == nil {
		a.Balances = map[string]tx.Amount{}
	}

	return a, nil
}

func (s *KVStore) Accounts(_ context.Context) ([]*Account, error) {
	accounts := []*Account{}

	err := s.db.Iterate([]byte{byte(accountTPrefix)}, func(_, v []byte) error {
		a := &Account{}
		if err := msgpack.Unmarshal(v, a); err != nil {
			return errors.Wrap(err, "unmarshalling account")
		}
		accounts = append(accounts, a)
		return nil
	})

	return accounts, err
}

func (s *KVStore) PutName(_ context.Context, n *NameRecord) error {
	return s.put(typedKey(nameTPrefix, n.Name), n)
}

func (s *KVStore) LookupName(_ context.Context, name string) (*NameRecord, error) {
	n := &NameRecord{}
	if err := s.get(typedKey(nameTPrefix, name), n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *KVStore) PutFactory(_ context.Context, f *FactoryRecord) error {
	return s.put(typedKey(factoryTPrefix, f.FactoryID), f)
}

func (s *KVStore) Factory(_ context.Context, id string) (*FactoryRecord, error) {
	f := &FactoryRecord{}
	if err := s.get(typedKey(factoryTPrefix, id), f); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *KVStore) PutEntity(_ context.Context, e *EntityRecord) error {
	return s.put(typedKey(entityTPrefix, e.EntityID), e)
}

func (s *KVStore) Entity(_ context.Context, id string) (*EntityRecord, error) {
	e := &EntityRecord{}
	if err := s.get(typedKey(entityTPrefix, id), e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *KVStore) SetGenesis(_ context.Context, id BlockID, generators []genesis.Generator) error {
	if err := s.put(typedKey(generatorsTPrefix), generators); err != nil {
		return errors.Wrap(err, "storing generators")
	}

	return s.db.Set(typedKey(genesisTPrefix), []byte(id))
}

func (s *KVStore) Generators(_ context.Context) ([]genesis.Generator, error) {
	g := []genesis.Generator{}
	if err := s.get(typedKey(generatorsTPrefix), &g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *KVStore) GenesisBlock(ctx context.Context) (*Block, error) {
	id, err := s.db.Get(typedKey(genesisTPrefix))
	if err != nil {
		return nil, err
	}

	return s.GetBlock(ctx, BlockID(id))
}

func (s *KVStore) HasGenesisApplied(_ context.Context) (bool, error) {
	_, err := s.db.Get(typedKey(genesisTPrefix))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (s *KVStore) Stop() error {
	if s.inBatch {
		return nil
	}

	return s.root.Close()
}
