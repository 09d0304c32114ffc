package genesis

import (
	"crypto/ed25519"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

// Signer is an account able to sign genesis transactions.
type Signer struct {
	Address string
	Key     ed25519.PrivateKey
}

func NewSigner(address string, rand io.Reader) (*Signer, error) {
	_, sk, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generating key")
	}

	return &Signer{Address: address, Key: sk}, nil
}

func (s *Signer) PublicKey() string {
	return hex.EncodeToString(s.Key.Public().(ed25519.PublicKey))
}

// Builder assembles a new genesis block. Transactions are appended in order,
// signed by their sender, and the derived transaction info is computed by
// Build.
type Builder struct {
	block     Block
	txs       []*tx.Tx
	factories map[string]tx.IssueEntityFactory
	err       error
}

func NewBuilder(params Asset) *Builder {
	return &Builder{
		block: Block{
			Version: 1,
			Height:  Height,
			Magic:   params.Magic,
			Asset:   BlockAsset{GenesisAsset: params},
		},
		factories: map[string]tx.IssueEntityFactory{},
	}
}

func (bd *Builder) WithTimestamp(ts int64) *Builder {
	bd.block.Timestamp = ts
	return bd
}

func (bd *Builder) WithReward(r tx.Amount) *Builder {
	bd.block.Reward = r
	return bd
}

func (bd *Builder) AddGenerator(address string, forgeEntities uint64) *Builder {
	p := bd.block.Params()
	p.NextRoundGenerators = append(p.NextRoundGenerators, Generator{
		Address:               address,
		NumberOfForgeEntities: forgeEntities,
	})
	return bd
}

func (bd *Builder) newTx(from *Signer, b tx.Base, recipient string, fee tx.Amount, asset tx.Asset) *tx.Tx {
	p := bd.block.Params()

	return &tx.Tx{
		Version:              tx.Version1,
		Type:                 tx.MakeType(p.AssetType, p.ChainName, b),
		SenderID:             from.Address,
		SenderPublicKey:      from.PublicKey(),
		RecipientID:          recipient,
		Fee:                  fee,
		Timestamp:            bd.block.Timestamp,
		ApplyBlockHeight:     Height,
		EffectiveBlockHeight: Height,
		FromMagic:            p.Magic,
		ToMagic:              p.Magic,
		Asset:                asset,
	}
}

// Add appends t signed by from. A nil signer leaves the tx as given.
func (bd *Builder) Add(t *tx.Tx, from *Signer) *Builder {
	if bd.err != nil {
		return bd
	}

	if from != nil {
		if err := t.Sign(from.Key); err != nil {
			bd.err = errors.Wrapf(err, "signing tx %d", len(bd.txs))
			return bd
		}
	}

	bd.txs = append(bd.txs, t)
	return bd
}

func (bd *Builder) RegisterName(from *Signer, name string, fee tx.Amount) *Builder {
	p := bd.block.Params()

	return bd.Add(bd.newTx(from, tx.BaseLocationName, "", fee, tx.Asset{
		LocationName: &tx.LocationName{
			Name:             name,
			SourceChainName:  p.ChainName,
			SourceChainMagic: p.Magic,
		},
	}), from)
}

func (bd *Builder) IssueFactory(from *Signer, factoryID string, entities tx.Amount, fee tx.Amount) *Builder {
	p := bd.block.Params()

	f := tx.IssueEntityFactory{
		SourceChainName:  p.ChainName,
		SourceChainMagic: p.Magic,
		FactoryID:        factoryID,
		EntityPrealnum:   entities,
	}
	bd.factories[factoryID] = f

	return bd.Add(bd.newTx(from, tx.BaseIssueEntityFactory, "", fee, tx.Asset{IssueEntityFactory: &f}), from)
}

// IssueEntity issues entityID from a factory previously added with
// IssueFactory. The entity is owned by recipient, or by the sender when
// recipient is empty.
func (bd *Builder) IssueEntity(from *Signer, recipient, factoryID, entityID string, fee tx.Amount) *Builder {
	p := bd.block.Params()

	f, ok := bd.factories[factoryID]
	if !ok && bd.err == nil {
		bd.err = errors.Errorf("factory %s not issued", factoryID)
	}

	return bd.Add(bd.newTx(from, tx.BaseIssueEntity, recipient, fee, tx.Asset{
		IssueEntity: &tx.IssueEntity{
			SourceChainName:        p.ChainName,
			SourceChainMagic:       p.Magic,
			EntityID:               entityID,
			EntityFactoryPossessor: from.Address,
			EntityFactory:          f,
		},
	}), from)
}

func (bd *Builder) Transfer(from *Signer, to string, amount tx.Amount, fee tx.Amount) *Builder {
	p := bd.block.Params()

	return bd.Add(bd.newTx(from, tx.BaseTransferAsset, to, fee, tx.Asset{
		TransferAsset: &tx.TransferAsset{
			SourceChainName:  p.ChainName,
			SourceChainMagic: p.Magic,
			AssetType:        p.AssetType,
			Amount:           amount,
		},
	}), from)
}

// Build fills in the transaction info and signs the block with generator.
func (bd *Builder) Build(generator *Signer) (*Block, error) {
	if bd.err != nil {
		return nil, bd.err
	}

	b := bd.block
	b.GeneratorPublicKey = generator.PublicKey()

	ti := &b.TransactionInfo
	ti.TransactionInBlocks = make([]TransactionInBlock, 0, len(bd.txs))

	var err error
	for i, t := range bd.txs {
		ti.TransactionInBlocks = append(ti.TransactionInBlocks, TransactionInBlock{TIndex: uint64(i), Transaction: t})

		sb, err := t.SigningBytes()
		if err != nil {
			return nil, err
		}
		ti.PayloadLength += uint64(len(sb))

		if ti.TotalFee, err = ti.TotalFee.Add(t.Fee); err != nil {
			return nil, errors.Wrap(err, "summing fees")
		}
	}

	ti.NumberOfTransactions = uint64(len(bd.txs))
	ti.Offset = ti.NumberOfTransactions

	if ti.StatisticInfo, err = ComputeStatistics(b.ChainAsset(), bd.txs); err != nil {
		return nil, errors.Wrap(err, "computing statistics")
	}
	ti.TotalAmount = ti.StatisticInfo.TotalChainAsset

	if ti.PayloadHash, err = PayloadHash(bd.txs); err != nil {
		return nil, err
	}

	bs, err := b.SigningBytes()
	if err != nil {
		return nil, err
	}
	b.BlockSize = uint64(len(bs))

	if err := b.Sign(generator.Key); err != nil {
		return nil, errors.Wrap(err, "signing block")
	}

	return &b, nil
}
