package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

type txBlockIndex interface {
	GetTxBlock(context.Context, tx.TxID) (*Block, error)
}

type Validator interface {
	IsBlockValid(context.Context, *genesis.Block) error
	IsTxValid(context.Context, *tx.Tx) error
}

// TxValidator checks txs against the state held by s.
type TxValidator struct {
	s     MetadataProvider
	chain genesis.AssetKey
}

func NewTxValidator(s MetadataProvider, chain genesis.AssetKey) *TxValidator {
	return &TxValidator{s, chain}
}

// IsBlockValid checks the block as a whole against the store. Stateful
// checks of each tx happen in IsTxValid while the block is applied.
func (v *TxValidator) IsBlockValid(ctx context.Context, b *genesis.Block) error {
	txs := b.Transactions()

	if len(txs) > MaxBlockTxCount {
		return errors.Wrapf(ErrTooManyTx, "%d tx", len(txs))
	}

	idx, indexed := v.s.(txBlockIndex)
	seen := make(map[tx.TxID]int, len(txs))

	for i, t := range txs {
		id, err := t.ID()
		if err != nil {
			return errors.Wrapf(err, "tx %d id", i)
		}

		if j, ok := seen[id]; ok {
			return errors.Wrapf(ErrDuplicateTx, "tx %d repeats tx %d", i, j)
		}
		seen[id] = i

		if !indexed {
			continue
		}

		block, err := idx.GetTxBlock(ctx, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "checking for preexisting tx")
		}
		if block != nil {
			return errors.Wrapf(ErrTxInOtherBlock, "tx %d in %s", i, block.ID)
		}
	}

	return nil
}

func (v *TxValidator) IsTxValid(ctx context.Context, t *tx.Tx) error {
	if err := t.IsValid(); err != nil {
		return err
	}

	if err := v.isSenderValid(ctx, t); err != nil {
		return err
	}

	switch p := t.Payload().(type) {
	case *tx.LocationName:
		return v.isLocationNameTxValid(ctx, p)
	case *tx.IssueEntityFactory:
		return v.isFactoryTxValid(ctx, p)
	case *tx.IssueEntity:
		return v.isEntityTxValid(ctx, t, p)
	case *tx.TransferAsset:
		return nil
	default:
		return errors.Wrapf(ErrOpNotSupported, "%s", t.Type)
	}
}

func (v *TxValidator) isSenderValid(ctx context.Context, t *tx.Tx) error {
	a, err := v.s.Account(ctx, t.SenderID)
	if errors.Is(err, ErrNotFound) {
		a = NewAccount(t.SenderID)
	} else if err != nil {
		return errors.Wrap(err, "loading sender")
	}

	if a.PublicKey != "" && a.PublicKey != t.SenderPublicKey {
		return errors.Wrapf(ErrPublicKeyMismatch, "sender %s", t.SenderID)
	}

	return v.isBalanceSufficient(a, t)
}

// isBalanceSufficient checks the sender can pay the fee plus whatever the
// tx moves out of its account.
func (v *TxValidator) isBalanceSufficient(a *Account, t *tx.Tx) error {
	needs := map[genesis.AssetKey]tx.Amount{v.chain: t.Fee}

	if p, ok := t.Payload().(*tx.TransferAsset); ok {
		k := genesis.TransferKey(p)
		n, err := needs[k].Add(p.Amount)
		if err != nil {
			return errors.Wrap(err, "summing spend")
		}
		needs[k] = n
	}

	for k, n := range needs {
		if a.Balance(k).Cmp(n) < 0 {
			return errors.Wrapf(ErrInsufficientBalance, "%s has %s %s, needs %s", a.Address, a.Balance(k), k, n)
		}
	}

	return nil
}

func (v *TxValidator) isLocationNameTxValid(ctx context.Context, p *tx.LocationName) error {
	_, err := v.s.LookupName(ctx, p.Name)
	if err == nil {
		return errors.Wrapf(ErrNameTaken, "%s", p.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "looking up name")
	}

	return nil
}

func (v *TxValidator) isFactoryTxValid(ctx context.Context, p *tx.IssueEntityFactory) error {
	_, err := v.s.Factory(ctx, p.FactoryID)
	if err == nil {
		return errors.Wrapf(ErrFactoryExists, "%s", p.FactoryID)
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "looking up factory")
	}

	return nil
}

func (v *TxValidator) isEntityTxValid(ctx context.Context, t *tx.Tx, p *tx.IssueEntity) error {
	f, err := v.s.Factory(ctx, p.EntityFactory.FactoryID)
	if errors.Is(err, ErrNotFound) {
		return errors.Wrapf(ErrUnknownFactory, "%s", p.EntityFactory.FactoryID)
	} else if err != nil {
		return errors.Wrap(err, "looking up factory")
	}

	if f.Possessor != t.SenderID || f.Possessor != p.EntityFactoryPossessor {
		return errors.Wrapf(ErrNotFactoryPossessor, "%s possessed by %s", f.FactoryID, f.Possessor)
	}

	if f.Exhausted() {
		return errors.Wrapf(ErrFactoryExhausted, "%s issued %d", f.FactoryID, f.Issued)
	}

	_, err = v.s.Entity(ctx, p.EntityID)
	if err == nil {
		return errors.Wrapf(ErrEntityExists, "%s", p.EntityID)
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "looking up entity")
	}

	return nil
}
