package storage

import (
	"context"

	"github.com/tcfw/ccgenesis/pkg/genesis"
)

// MetadataProvider provides indexes and metadata for TXs that
// have been successfully validated and applied in the block chain.
// The information should be maintainable and rebuildable from the
// stored blocks and should be used as a performance measure for
// reading blockchain records
type MetadataProvider interface {
	Account(context.Context, string) (*Account, error)
	Accounts(context.Context) ([]*Account, error)

	LookupName(context.Context, string) (*NameRecord, error)

	Factory(context.Context, string) (*FactoryRecord, error)
	Entity(context.Context, string) (*EntityRecord, error)

	Generators(context.Context) ([]genesis.Generator, error)

	GenesisBlock(context.Context) (*Block, error)
	HasGenesisApplied(context.Context) (bool, error)
}
