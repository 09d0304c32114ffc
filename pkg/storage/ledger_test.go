package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

const (
	devnetHolder = "cGenesis6Qx4w8HcNbV1vJzT3eRkq9mYp2a"
	devnetA      = "cForgerAo7Lx2uRt5WmK8nQ3bVc1jHs6dE"
	devnetB      = "cForgerBp4Ny9sFq2ZkD7hLm5xWc3vTg8u"
	devnetC      = "cForgerCk2Rz6tMw9PbJ4yHn7sQd1fXe5v"
)

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)
	chain := g.ChainAsset()

	l := NewLedger(NewMemStore(), chain)

	if err := l.Mint(ctx, devnetHolder, tx.NewAmount(5_000_000)); err != nil {
		t.Fatal(err)
	}

	transfer := g.Transactions()[1]
	id, _ := transfer.ID()

	if err := l.ApplyTx(ctx, id, transfer); err != nil {
		t.Fatal(err)
	}

	holder, err := l.Account(ctx, devnetHolder)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, tx.NewAmount(3_999_900), holder.Balance(chain))
	assert.Equal(t, transfer.SenderPublicKey, holder.PublicKey)

	a, err := l.Account(ctx, devnetA)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, tx.NewAmount(1_000_000), a.Balance(chain))
	assert.Equal(t, tx.NewAmount(100), l.Fees())

	if err := l.Collect(ctx, devnetC, tx.NewAmount(1)); err != nil {
		t.Fatal(err)
	}

	c, _ := l.Account(ctx, devnetC)
	assert.Equal(t, tx.NewAmount(101), c.Balance(chain))
	assert.True(t, l.Fees().IsZero())
}

func TestLedgerInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)

	l := NewLedger(NewMemStore(), g.ChainAsset())

	if err := l.Mint(ctx, devnetHolder, tx.NewAmount(1_000_050)); err != nil {
		t.Fatal(err)
	}

	transfer := g.Transactions()[1]
	id, _ := transfer.ID()

	err := l.ApplyTx(ctx, id, transfer)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestLedgerCommit(t *testing.T) {
	ctx := context.Background()
	g := defaultGenesis(t)
	s := NewMemStore()

	l := NewLedger(s, g.ChainAsset())
	if err := l.Mint(ctx, devnetA, tx.NewAmount(1000)); err != nil {
		t.Fatal(err)
	}

	for _, x := range g.Transactions()[4:] {
		id, _ := x.ID()
		if err := l.ApplyTx(ctx, id, x); err != nil {
			t.Fatal(err)
		}
	}

	_, err := s.Factory(ctx, "forge")
	assert.ErrorIs(t, err, ErrNotFound)

	if err := l.Commit(ctx, s); err != nil {
		t.Fatal(err)
	}

	f, err := s.Factory(ctx, "forge")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, devnetA, f.Possessor)
	assert.Equal(t, uint64(1), f.Issued)

	e, err := s.Entity(ctx, "forge_0001")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, devnetB, e.Owner)

	a, err := s.Account(ctx, devnetA)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, tx.NewAmount(750), a.Balance(genesis.AssetKey{Magic: "XXVXQ", AssetType: "CCC"}))
}
