package storage

import (
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

const (
	Version         = 1
	MaxBlockTxCount = 5000
)

type BlockID string

type Block struct {
	Version   uint32    `msgpack:"v" json:"version"`
	ID        BlockID   `msgpack:"i" json:"id"`
	Height    uint64    `msgpack:"h" json:"height"`
	CreatedAt int64     `msgpack:"t" json:"timestamp"`
	Magic     string    `msgpack:"m" json:"magic"`
	Generator string    `msgpack:"w" json:"generatorPublicKey"`
	Signature string    `msgpack:"s" json:"signature"`
	Reward    tx.Amount `msgpack:"r" json:"reward"`
	Txs       []string  `msgpack:"x" json:"transactions"`
	Bloom     []byte    `msgpack:"b" json:"-"`
}

// NewGenesisBlock builds the stored header for a genesis block whose txs have
// been stored under ids.
func NewGenesisBlock(g *genesis.Block, ids []tx.TxID) (*Block, error) {
	b := &Block{
		Version:   Version,
		Height:    g.Height,
		CreatedAt: g.Timestamp,
		Magic:     g.Magic,
		Generator: g.GeneratorPublicKey,
		Signature: g.Signature,
		Reward:    g.Reward,
		Txs:       make([]string, 0, len(ids)),
	}

	for _, id := range ids {
		b.Txs = append(b.Txs, id.String())
	}

	var err error
	b.Bloom, err = MakeBloom(ids)
	if err != nil {
		return nil, errors.Wrap(err, "creating block bloom filter")
	}

	return b, nil
}

// MayContain reports whether the tx is possibly part of the block.
func (b *Block) MayContain(id tx.TxID) bool {
	if len(b.Bloom) == 0 {
		return true
	}

	ok, err := BloomContains(b.Bloom, id)
	if err != nil {
		return true
	}

	return ok
}

type Account struct {
	Address   string               `msgpack:"a" json:"address"`
	PublicKey string               `msgpack:"k" json:"publicKey,omitempty"`
	Balances  map[string]tx.Amount `msgpack:"b" json:"balances"`
}

func NewAccount(address string) *Account {
	return &Account{Address: address, Balances: map[string]tx.Amount{}}
}

func (a *Account) Balance(k genesis.AssetKey) tx.Amount {
	return a.Balances[k.String()]
}

func (a *Account) credit(k genesis.AssetKey, v tx.Amount) error {
	if a.Balances == nil {
		a.Balances = map[string]tx.Amount{}
	}

	n, err := a.Balance(k).Add(v)
	if err != nil {
		return errors.Wrapf(err, "crediting %s", a.Address)
	}

	a.Balances[k.String()] = n
	return nil
}

func (a *Account) debit(k genesis.AssetKey, v tx.Amount) error {
	n, err := a.Balance(k).Sub(v)
	if err != nil {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %s %s, needs %s", a.Address, a.Balance(k), k, v)
	}

	a.Balances[k.String()] = n
	return nil
}

type NameRecord struct {
	Name  string `msgpack:"n" json:"name"`
	Owner string `msgpack:"o" json:"owner"`
	TxID  string `msgpack:"t" json:"txId"`
}

type FactoryRecord struct {
	FactoryID                 string    `msgpack:"f" json:"factoryId"`
	Possessor                 string    `msgpack:"p" json:"possessor"`
	EntityPrealnum            tx.Amount `msgpack:"ep" json:"entityPrealnum"`
	EntityFrozenAssetPrealnum tx.Amount `msgpack:"ef" json:"entityFrozenAssetPrealnum"`
	PurchaseAssetPrealnum     tx.Amount `msgpack:"pp" json:"purchaseAssetPrealnum"`
	Issued                    uint64    `msgpack:"i" json:"issued"`
	TxID                      string    `msgpack:"t" json:"txId"`
}

// Exhausted reports whether every entity of the factory has been issued.
func (f *FactoryRecord) Exhausted() bool {
	return tx.NewAmount(f.Issued).Cmp(f.EntityPrealnum) >= 0
}

type EntityRecord struct {
	EntityID         string    `msgpack:"e" json:"entityId"`
	FactoryID        string    `msgpack:"f" json:"factoryId"`
	Owner            string    `msgpack:"o" json:"owner"`
	TaxAssetPrealnum tx.Amount `msgpack:"x" json:"taxAssetPrealnum"`
	TxID             string    `msgpack:"t" json:"txId"`
}
