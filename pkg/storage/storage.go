package storage

import (
	"context"

	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

// Store holds blocks, txs and the ledger state derived from them.
type Store interface {
	PutTx(context.Context, *tx.Tx) (tx.TxID, error)
	GetTx(context.Context, tx.TxID) (*tx.Tx, error)

	PutBlock(context.Context, *Block) (BlockID, error)
	GetBlock(context.Context, BlockID) (*Block, error)
	GetTxBlock(context.Context, tx.TxID) (*Block, error)

	PutAccount(context.Context, *Account) error
	PutName(context.Context, *NameRecord) error
	PutFactory(context.Context, *FactoryRecord) error
	PutEntity(context.Context, *EntityRecord) error
	SetGenesis(context.Context, BlockID, []genesis.Generator) error

	// Update applies every write made by fn atomically, or none of them
	// when fn fails.
	Update(context.Context, func(Store) error) error

	MetadataProvider

	Stop() error
}
