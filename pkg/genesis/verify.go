package genesis

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/tx"
	"go.uber.org/multierr"
)

var (
	ErrInvalidBlock       = errors.New("genesis block is invalid")
	ErrInconsistentTotals = errors.New("genesis totals do not match transactions")
	ErrBadBlockSignature  = errors.New("genesis block signature does not verify")
)

type VerifyOptions struct {
	// Cryptographic enables tx signature, block signature and payload hash
	// checks.
	Cryptographic bool
}

// Report collects every violation found while verifying a genesis block.
type Report struct {
	violations []error

	Statistics StatisticInfo
}

func (r *Report) add(err error, format string, args ...interface{}) {
	r.violations = append(r.violations, errors.Wrapf(err, format, args...))
}

func (r *Report) Violations() []error {
	return r.violations
}

func (r *Report) OK() bool {
	return len(r.violations) == 0
}

// Err returns nil for a clean report, otherwise all violations combined.
func (r *Report) Err() error {
	return multierr.Combine(r.violations...)
}

// Verify checks the genesis block for internal consistency.
func Verify(b *Block, opts VerifyOptions) *Report {
	r := &Report{}
	p := b.Params()

	if b.Height != Height {
		r.add(ErrInvalidBlock, "height %d", b.Height)
	}
	if b.Magic != p.Magic {
		r.add(ErrInvalidBlock, "block magic %q differs from genesis asset magic %q", b.Magic, p.Magic)
	}
	if b.PreviousBlockSignature != "" {
		r.add(ErrInvalidBlock, "genesis block has a previous block")
	}

	verifyTransactionInfo(r, b)
	verifySupply(r, b)
	verifyGenerators(r, b)
	verifyTransactions(r, b)

	if opts.Cryptographic {
		verifyCrypto(r, b)
	}

	return r
}

func verifyTransactionInfo(r *Report, b *Block) {
	ti := &b.TransactionInfo
	n := uint64(len(ti.TransactionInBlocks))

	if ti.NumberOfTransactions != n {
		r.add(ErrInconsistentTotals, "numberOfTransactions %d, have %d", ti.NumberOfTransactions, n)
	}
	if ti.Offset != n {
		r.add(ErrInconsistentTotals, "offset %d, have %d", ti.Offset, n)
	}
	if ti.StartTIndex != 0 {
		r.add(ErrInvalidBlock, "startTindex %d", ti.StartTIndex)
	}

	idx := make(map[uint64]struct{}, n)
	for _, t := range ti.TransactionInBlocks {
		if t.Transaction == nil {
			r.add(ErrInvalidBlock, "tIndex %d has no transaction", t.TIndex)
		}
		idx[t.TIndex] = struct{}{}
	}
	for i := uint64(0); i < n; i++ {
		if _, ok := idx[i]; !ok {
			r.add(ErrInvalidBlock, "tIndex %d missing", i)
		}
	}

	txs := b.Transactions()
	for _, t := range txs {
		if t == nil {
			return
		}
	}

	fee, amount := tx.Amount{}, tx.Amount{}
	chain := b.ChainAsset()
	var err error

	for _, t := range txs {
		if fee, err = fee.Add(t.Fee); err != nil {
			r.add(err, "summing fees")
			return
		}
		if p, ok := t.Payload().(*tx.TransferAsset); ok && TransferKey(p) == chain {
			if amount, err = amount.Add(p.Amount); err != nil {
				r.add(err, "summing amounts")
				return
			}
		}
	}

	if fee != ti.TotalFee {
		r.add(ErrInconsistentTotals, "totalFee %s, transactions sum to %s", ti.TotalFee, fee)
	}
	if amount != ti.TotalAmount {
		r.add(ErrInconsistentTotals, "totalAmount %s, transactions sum to %s", ti.TotalAmount, amount)
	}

	stats, err := ComputeStatistics(chain, txs)
	if err != nil {
		r.add(err, "computing statistics")
		return
	}
	r.Statistics = stats

	for _, d := range ti.StatisticInfo.Diff(stats) {
		r.add(ErrInconsistentTotals, "statisticInfo %s", d)
	}
}

func verifySupply(r *Report, b *Block) {
	p := b.Params()

	supply, err := p.GenesisAmount.Add(b.Reward)
	if err != nil {
		r.add(err, "genesis supply")
		return
	}

	if !p.MaxSupply.IsZero() && supply.Cmp(p.MaxSupply) > 0 {
		r.add(ErrInvalidBlock, "genesis amount plus reward %s exceeds max supply %s", supply, p.MaxSupply)
	}
}

func verifyGenerators(r *Report, b *Block) {
	p := b.Params()

	if p.BlockPerRound != 0 && uint64(len(p.NextRoundGenerators)) > p.BlockPerRound {
		r.add(ErrInvalidBlock, "%d generators for a %d block round", len(p.NextRoundGenerators), p.BlockPerRound)
	}

	seen := map[string]struct{}{}
	for _, t := range b.Transactions() {
		if t == nil {
			continue
		}
		for _, a := range t.Accounts() {
			seen[a] = struct{}{}
		}
	}

	dup := map[string]struct{}{}
	for _, g := range p.NextRoundGenerators {
		if _, ok := dup[g.Address]; ok {
			r.add(ErrInvalidBlock, "generator %s listed twice", g.Address)
		}
		dup[g.Address] = struct{}{}

		if _, ok := seen[g.Address]; !ok {
			r.add(ErrInvalidBlock, "generator %s takes part in no transaction", g.Address)
		}
	}
}

func verifyTransactions(r *Report, b *Block) {
	p := b.Params()
	keys := map[string]string{}
	ids := map[tx.TxID]int{}

	for i, t := range b.Transactions() {
		if t == nil {
			continue
		}

		if err := t.IsValid(); err != nil {
			r.add(err, "tx %d", i)
		}

		if id, err := t.ID(); err != nil {
			r.add(err, "tx %d id", i)
		} else if j, ok := ids[id]; ok {
			r.add(ErrInvalidBlock, "tx %d repeats tx %d (%s)", i, j, id)
		} else {
			ids[id] = i
		}

		if t.FromMagic != b.Magic || t.ToMagic != b.Magic {
			r.add(tx.ErrInvalid, "tx %d magic %s->%s on chain %s", i, t.FromMagic, t.ToMagic, b.Magic)
		}

		if t.ApplyBlockHeight > Height || t.EffectiveBlockHeight < Height {
			r.add(tx.ErrInvalid, "tx %d not effective at genesis (%d..%d)", i, t.ApplyBlockHeight, t.EffectiveBlockHeight)
		} else if p.MaxApplyAndConfirmedBlockHeightDiff != 0 && t.EffectiveBlockHeight-t.ApplyBlockHeight > p.MaxApplyAndConfirmedBlockHeightDiff {
			r.add(tx.ErrInvalid, "tx %d effective window %d exceeds %d", i, t.EffectiveBlockHeight-t.ApplyBlockHeight, p.MaxApplyAndConfirmedBlockHeightDiff)
		}

		if code, err := tx.ParseType(t.Type); err == nil && code.Full() {
			if code.AssetType != p.AssetType || code.ChainName != strings.ToUpper(p.ChainName) {
				r.add(tx.ErrInvalid, "tx %d type %s belongs to another chain", i, t.Type)
			}
		}

		if k, ok := keys[t.SenderID]; ok && k != t.SenderPublicKey {
			r.add(tx.ErrInvalid, "tx %d sender %s signs with a second public key", i, t.SenderID)
		} else {
			keys[t.SenderID] = t.SenderPublicKey
		}
	}
}

func verifyCrypto(r *Report, b *Block) {
	txs := b.Transactions()

	for i, t := range txs {
		if t == nil {
			continue
		}
		if err := t.Verify(); err != nil {
			r.add(err, "tx %d", i)
		}
	}

	ph, err := PayloadHash(txs)
	if err != nil {
		r.add(err, "computing payload hash")
	} else if ph != b.TransactionInfo.PayloadHash {
		r.add(ErrInconsistentTotals, "payloadHash %s, transactions hash to %s", b.TransactionInfo.PayloadHash, ph)
	}

	if err := b.VerifySignature(); err != nil {
		r.add(err, "block")
	}
}

// VerifySignature checks the block signature against the generator key.
func (b *Block) VerifySignature() error {
	pk, err := tx.DecodePublicKey(b.GeneratorPublicKey)
	if err != nil {
		return errors.Wrap(err, "generator public key")
	}

	sig, err := hex.DecodeString(b.Signature)
	if err != nil {
		return errors.Wrap(ErrBadBlockSignature, "signature is not hex")
	}

	_, d, err := b.digest()
	if err != nil {
		return err
	}

	if !ed25519.Verify(pk, d, sig) {
		return ErrBadBlockSignature
	}

	return nil
}

// String renders the violations one per line.
func (r *Report) String() string {
	if r.OK() {
		return "ok"
	}

	var sb strings.Builder
	for _, v := range r.violations {
		fmt.Fprintf(&sb, "%s\n", v)
	}
	return sb.String()
}
