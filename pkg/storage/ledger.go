package storage

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

// Ledger stages the state changes of a block on top of a MetadataProvider.
// Reads see staged changes first. Nothing reaches a store until Commit.
type Ledger struct {
	MetadataProvider

	chain genesis.AssetKey
	fees  tx.Amount

	accounts  map[string]*Account
	names     map[string]*NameRecord
	factories map[string]*FactoryRecord
	entities  map[string]*EntityRecord
}

func NewLedger(base MetadataProvider, chain genesis.AssetKey) *Ledger {
	return &Ledger{
		MetadataProvider: base,
		chain:            chain,
		accounts:         map[string]*Account{},
		names:            map[string]*NameRecord{},
		factories:        map[string]*FactoryRecord{},
		entities:         map[string]*EntityRecord{},
	}
}

func (l *Ledger) Account(ctx context.Context, address string) (*Account, error) {
	if a, ok := l.accounts[address]; ok {
		return a, nil
	}

	return l.MetadataProvider.Account(ctx, address)
}

func (l *Ledger) Accounts(ctx context.Context) ([]*Account, error) {
	base, err := l.MetadataProvider.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*Account, 0, len(base)+len(l.accounts))
	for _, a := range base {
		if _, ok := l.accounts[a.Address]; !ok {
			accounts = append(accounts, a)
		}
	}
	for _, a := range l.accounts {
		accounts = append(accounts, a)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address < accounts[j].Address })

	return accounts, nil
}

func (l *Ledger) LookupName(ctx context.Context, name string) (*NameRecord, error) {
	if n, ok := l.names[name]; ok {
		return n, nil
	}

	return l.MetadataProvider.LookupName(ctx, name)
}

func (l *Ledger) Factory(ctx context.Context, id string) (*FactoryRecord, error) {
	if f, ok := l.factories[id]; ok {
		return f, nil
	}

	return l.MetadataProvider.Factory(ctx, id)
}

func (l *Ledger) Entity(ctx context.Context, id string) (*EntityRecord, error) {
	if e, ok := l.entities[id]; ok {
		return e, nil
	}

	return l.MetadataProvider.Entity(ctx, id)
}

// account loads address into the staging area, creating it when unknown.
func (l *Ledger) account(ctx context.Context, address string) (*Account, error) {
	if a, ok := l.accounts[address]; ok {
		return a, nil
	}

	a, err := l.MetadataProvider.Account(ctx, address)
	if errors.Is(err, ErrNotFound) {
		a = NewAccount(address)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading account %s", address)
	}

	l.accounts[address] = a

	return a, nil
}

// Fees is the sum of fees paid since the last Collect.
func (l *Ledger) Fees() tx.Amount {
	return l.fees
}

// Mint credits newly created chain asset to address.
func (l *Ledger) Mint(ctx context.Context, address string, amount tx.Amount) error {
	a, err := l.account(ctx, address)
	if err != nil {
		return err
	}

	return a.credit(l.chain, amount)
}

// Collect pays the collected fees plus reward to address.
func (l *Ledger) Collect(ctx context.Context, address string, reward tx.Amount) error {
	total, err := l.fees.Add(reward)
	if err != nil {
		return errors.Wrap(err, "adding reward to fees")
	}

	if err := l.Mint(ctx, address, total); err != nil {
		return err
	}

	l.fees = tx.Amount{}

	return nil
}

// ApplyTx moves balances and records the names, factories and entities
// created by t. It expects t to have passed TxValidator.IsTxValid.
func (l *Ledger) ApplyTx(ctx context.Context, id tx.TxID, t *tx.Tx) error {
	sender, err := l.account(ctx, t.SenderID)
	if err != nil {
		return err
	}

	if sender.PublicKey == "" {
		sender.PublicKey = t.SenderPublicKey
	}

	if err := sender.debit(l.chain, t.Fee); err != nil {
		return errors.Wrap(err, "paying fee")
	}

	if l.fees, err = l.fees.Add(t.Fee); err != nil {
		return errors.Wrap(err, "collecting fee")
	}

	switch p := t.Payload().(type) {
	case *tx.LocationName:
		l.names[p.Name] = &NameRecord{
			Name:  p.Name,
			Owner: t.SenderID,
			TxID:  id.String(),
		}
	case *tx.IssueEntityFactory:
		l.factories[p.FactoryID] = &FactoryRecord{
			FactoryID:                 p.FactoryID,
			Possessor:                 t.SenderID,
			EntityPrealnum:            p.EntityPrealnum,
			EntityFrozenAssetPrealnum: p.EntityFrozenAssetPrealnum,
			PurchaseAssetPrealnum:     p.PurchaseAssetPrealnum,
			TxID:                      id.String(),
		}
	case *tx.IssueEntity:
		f, err := l.Factory(ctx, p.EntityFactory.FactoryID)
		if err != nil {
			return errors.Wrapf(err, "loading factory %s", p.EntityFactory.FactoryID)
		}

		staged := *f
		staged.Issued++
		l.factories[staged.FactoryID] = &staged

		owner := t.RecipientID
		if owner == "" {
			owner = t.SenderID
		}
		if _, err := l.account(ctx, owner); err != nil {
			return err
		}

		l.entities[p.EntityID] = &EntityRecord{
			EntityID:         p.EntityID,
			FactoryID:        staged.FactoryID,
			Owner:            owner,
			TaxAssetPrealnum: p.TaxAssetPrealnum,
			TxID:             id.String(),
		}
	case *tx.TransferAsset:
		recipient, err := l.account(ctx, t.RecipientID)
		if err != nil {
			return err
		}

		k := genesis.TransferKey(p)
		if err := sender.debit(k, p.Amount); err != nil {
			return errors.Wrap(err, "transferring")
		}
		if err := recipient.credit(k, p.Amount); err != nil {
			return errors.Wrap(err, "transferring")
		}
	default:
		return errors.Wrapf(ErrOpNotSupported, "%s", t.Type)
	}

	return nil
}

// Commit writes every staged change to s.
func (l *Ledger) Commit(ctx context.Context, s Store) error {
	for _, a := range l.accounts {
		if err := s.PutAccount(ctx, a); err != nil {
			return errors.Wrapf(err, "storing account %s", a.Address)
		}
	}

	for _, n := range l.names {
		if err := s.PutName(ctx, n); err != nil {
			return errors.Wrapf(err, "storing name %s", n.Name)
		}
	}

	for _, f := range l.factories {
		if err := s.PutFactory(ctx, f); err != nil {
			return errors.Wrapf(err, "storing factory %s", f.FactoryID)
		}
	}

	for _, e := range l.entities {
		if err := s.PutEntity(ctx, e); err != nil {
			return errors.Wrapf(err, "storing entity %s", e.EntityID)
		}
	}

	return nil
}
