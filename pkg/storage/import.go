package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

type importer struct {
	logger *logrus.Entry
	verify genesis.VerifyOptions
	onTx   func(tx.TxID, *tx.Tx)
}

type ImportOption func(*importer)

func WithLogger(l *logrus.Entry) ImportOption {
	return func(i *importer) {
		i.logger = l
	}
}

func WithVerifyOptions(o genesis.VerifyOptions) ImportOption {
	return func(i *importer) {
		i.verify = o
	}
}

// WithTxCallback calls fn for every tx once the genesis block has been
// committed.
func WithTxCallback(fn func(tx.TxID, *tx.Tx)) ImportOption {
	return func(i *importer) {
		i.onTx = fn
	}
}

// ImportGenesis verifies g and applies it as the first block of s. The
// genesis amount is minted to the account signing with the generator key,
// which also collects the block reward and every fee. Either the whole
// block is applied or nothing is.
func ImportGenesis(ctx context.Context, s Store, g *genesis.Block, opts ...ImportOption) (BlockID, error) {
	imp := &importer{logger: logging.Entry()}
	for _, opt := range opts {
		opt(imp)
	}

	applied, err := s.HasGenesisApplied(ctx)
	if err != nil {
		return "", errors.Wrap(err, "checking for genesis")
	}
	if applied {
		return "", ErrGenesisApplied
	}

	if r := genesis.Verify(g, imp.verify); !r.OK() {
		return "", errors.Wrap(r.Err(), "verifying genesis")
	}

	chain := g.ChainAsset()
	if err := NewTxValidator(s, chain).IsBlockValid(ctx, g); err != nil {
		return "", errors.Wrap(err, "validating genesis block")
	}

	holder, ok := g.GenesisAccount()
	if !ok {
		return "", ErrNoGenesisAccount
	}

	l := NewLedger(s, chain)
	v := NewTxValidator(l, chain)

	if err := l.Mint(ctx, holder, g.Params().GenesisAmount); err != nil {
		return "", errors.Wrap(err, "minting genesis amount")
	}

	txs := g.Transactions()
	ids := make([]tx.TxID, 0, len(txs))

	for i, t := range txs {
		id, err := t.ID()
		if err != nil {
			return "", errors.Wrapf(err, "tx %d id", i)
		}

		if err := v.IsTxValid(ctx, t); err != nil {
			return "", errors.Wrapf(err, "tx %d (%s)", i, id)
		}

		if err := l.ApplyTx(ctx, id, t); err != nil {
			return "", errors.Wrapf(err, "applying tx %d (%s)", i, id)
		}

		ids = append(ids, id)
	}

	if err := l.Collect(ctx, holder, g.Reward); err != nil {
		return "", errors.Wrap(err, "collecting fees")
	}

	b, err := NewGenesisBlock(g, ids)
	if err != nil {
		return "", err
	}

	err = s.Update(ctx, func(s Store) error {
		for i, t := range txs {
			if _, err := s.PutTx(ctx, t); err != nil {
				return errors.Wrapf(err, "storing tx %d", i)
			}
		}

		if err := l.Commit(ctx, s); err != nil {
			return err
		}

		if _, err := s.PutBlock(ctx, b); err != nil {
			return errors.Wrap(err, "putting block")
		}

		return s.SetGenesis(ctx, b.ID, g.Params().NextRoundGenerators)
	})
	if err != nil {
		return "", err
	}

	if imp.onTx != nil {
		for i, t := range txs {
			imp.onTx(ids[i], t)
		}
	}

	imp.logger.WithFields(logrus.Fields{
		"block":  b.ID,
		"txs":    len(txs),
		"holder": holder,
		"reward": g.Reward.String(),
		"fees":   g.TransactionInfo.TotalFee.String(),
	}).Info("genesis applied")

	return b.ID, nil
}
