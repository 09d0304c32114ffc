package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

func TestTxValidator(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)
	chain := g.ChainAsset()
	txs := g.Transactions()

	tests := map[string]struct {
		setup  func(s *MemStore)
		tx     func() *tx.Tx
		expect error
	}{
		"name free": {
			tx: func() *tx.Tx { return txs[0] },
		},
		"name taken": {
			setup: func(s *MemStore) {
				s.PutName(ctx, &NameRecord{Name: "genesis.ccchain", Owner: devnetC})
			},
			tx:     func() *tx.Tx { return txs[0] },
			expect: ErrNameTaken,
		},
		"sender key on record differs": {
			setup: func(s *MemStore) {
				a, _ := s.Account(ctx, devnetHolder)
				a.PublicKey = "ff"
				s.PutAccount(ctx, a)
			},
			tx:     func() *tx.Tx { return txs[1] },
			expect: ErrPublicKeyMismatch,
		},
		"factory exists": {
			setup: func(s *MemStore) {
				s.PutFactory(ctx, &FactoryRecord{FactoryID: "forge", Possessor: devnetB, EntityPrealnum: tx.NewAmount(1)})
			},
			tx:     func() *tx.Tx { return txs[4] },
			expect: ErrFactoryExists,
		},
		"entity unknown factory": {
			tx:     func() *tx.Tx { return txs[5] },
			expect: ErrUnknownFactory,
		},
		"entity from another possessor": {
			setup: func(s *MemStore) {
				s.PutFactory(ctx, &FactoryRecord{FactoryID: "forge", Possessor: devnetB, EntityPrealnum: tx.NewAmount(1)})
			},
			tx:     func() *tx.Tx { return txs[5] },
			expect: ErrNotFactoryPossessor,
		},
		"factory exhausted": {
			setup: func(s *MemStore) {
				s.PutFactory(ctx, &FactoryRecord{FactoryID: "forge", Possessor: devnetA, EntityPrealnum: tx.NewAmount(1), Issued: 1})
			},
			tx:     func() *tx.Tx { return txs[5] },
			expect: ErrFactoryExhausted,
		},
		"entity exists": {
			setup: func(s *MemStore) {
				s.PutFactory(ctx, &FactoryRecord{FactoryID: "forge", Possessor: devnetA, EntityPrealnum: tx.NewAmount(10)})
				s.PutEntity(ctx, &EntityRecord{EntityID: "forge_0001", FactoryID: "forge", Owner: devnetA})
			},
			tx:     func() *tx.Tx { return txs[5] },
			expect: ErrEntityExists,
		},
		"entity issued": {
			setup: func(s *MemStore) {
				s.PutFactory(ctx, &FactoryRecord{FactoryID: "forge", Possessor: devnetA, EntityPrealnum: tx.NewAmount(10)})
			},
			tx: func() *tx.Tx { return txs[5] },
		},
		"fee not covered": {
			setup: func(s *MemStore) {
				s.PutAccount(ctx, NewAccount(devnetA))
			},
			tx:     func() *tx.Tx { return txs[4] },
			expect: ErrInsufficientBalance,
		},
		"transfer not covered": {
			setup: func(s *MemStore) {
				a := NewAccount(devnetHolder)
				a.credit(chain, tx.NewAmount(1_000_099))
				s.PutAccount(ctx, a)
			},
			tx:     func() *tx.Tx { return txs[1] },
			expect: ErrInsufficientBalance,
		},
		"transfer covered": {
			setup: func(s *MemStore) {
				a := NewAccount(devnetHolder)
				a.credit(chain, tx.NewAmount(1_000_100))
				s.PutAccount(ctx, a)
			},
			tx: func() *tx.Tx { return txs[1] },
		},
		"stateless check": {
			tx: func() *tx.Tx {
				c := *txs[1]
				c.RecipientID = ""
				return &c
			},
			expect: tx.ErrInvalid,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewMemStore()
			fund(t, s, chain, devnetHolder, devnetA)

			if tc.setup != nil {
				tc.setup(s)
			}

			err := NewTxValidator(s, chain).IsTxValid(ctx, tc.tx())
			if tc.expect == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expect)
			}
		})
	}
}

func fund(t *testing.T, s Store, chain genesis.AssetKey, addresses ...string) {
	for _, addr := range addresses {
		a := NewAccount(addr)
		if err := a.credit(chain, tx.NewAmount(1_000_000_000)); err != nil {
			t.Fatal(err)
		}
		if err := s.PutAccount(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIsBlockValidRejectsKnownTx(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)
	s := NewMemStore()

	v := NewTxValidator(s, g.ChainAsset())
	assert.NoError(t, v.IsBlockValid(ctx, g))

	id, _ := g.Transactions()[3].ID()
	b, err := NewGenesisBlock(g, []tx.TxID{id})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutBlock(ctx, b); err != nil {
		t.Fatal(err)
	}

	assert.ErrorIs(t, v.IsBlockValid(ctx, g), ErrTxInOtherBlock)
}

func TestIsBlockValidRejectsRepeatedTx(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)

	ti := &g.TransactionInfo
	dup := ti.TransactionInBlocks[3]
	dup.TIndex = uint64(len(ti.TransactionInBlocks))
	ti.TransactionInBlocks = append(ti.TransactionInBlocks, dup)

	v := NewTxValidator(NewMemStore(), g.ChainAsset())
	assert.ErrorIs(t, v.IsBlockValid(ctx, g), ErrDuplicateTx)

	v = NewTxValidator(NewLedger(NewMemStore(), g.ChainAsset()), g.ChainAsset())
	assert.ErrorIs(t, v.IsBlockValid(ctx, g), ErrDuplicateTx)
}
