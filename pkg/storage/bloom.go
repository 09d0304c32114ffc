package storage

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ipfs/go-cid"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

const (
	falsePositive = 0.01
)

func MakeBloom(txs []tx.TxID) ([]byte, error) {
	b := bloom.NewWithEstimates(MaxBlockTxCount, falsePositive)

	for _, t := range txs {
		b.Add(cid.Cid(t).Bytes())
	}

	return b.GobEncode()
}

func BloomContains(b []byte, t tx.TxID) (bool, error) {
	bloom := bloom.NewWithEstimates(MaxBlockTxCount, falsePositive)

	if err := bloom.GobDecode(b); err != nil {
		return false, err
	}

	return bloom.Test(cid.Cid(t).Bytes()), nil
}
