package genesis

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

func testParams() Asset {
	return Asset{
		ChainName:                           "testchain",
		AssetType:                           "TST",
		Magic:                               "MAGIC",
		GenesisAmount:                       tx.NewAmount(1_000_000_000),
		MaxSupply:                           tx.NewAmount(10_000_000_000),
		MaxApplyAndConfirmedBlockHeightDiff: 10,
		BlockPerRound:                       3,
		ForgeInterval:                       15,
	}
}

func newSigner(t *testing.T, address string) *Signer {
	s, err := NewSigner(address, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func buildTestBlock(t *testing.T) (*Block, *Signer) {
	g := newSigner(t, "tGenesis")
	a := newSigner(t, "tForgerA")

	b, err := NewBuilder(testParams()).
		WithReward(tx.NewAmount(10)).
		AddGenerator(a.Address, 0).
		AddGenerator("tForgerB", 0).
		RegisterName(g, "genesis.testchain", tx.NewAmount(5)).
		Transfer(g, a.Address, tx.NewAmount(1000), tx.NewAmount(5)).
		Transfer(g, "tForgerB", tx.NewAmount(500), tx.NewAmount(5)).
		IssueFactory(a, "forge", tx.NewAmount(2), tx.NewAmount(20)).
		IssueEntity(a, "tForgerB", "forge", "forge_1", tx.NewAmount(1)).
		Build(g)
	require.NoError(t, err)

	return b, g
}

func TestDefault(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	assert.Equal(t, uint64(1), b.Height)
	assert.Len(t, b.Transactions(), 6)

	r := Verify(b, VerifyOptions{})
	assert.True(t, r.OK(), r.String())
	assert.NoError(t, r.Err())

	s := Summarize(b)
	assert.Equal(t, "ccchain", s.ChainName)
	assert.Equal(t, tx.NewAmount(650), s.TotalFee)
	assert.Equal(t, tx.NewAmount(3_000_000), s.TotalAmount)
	assert.Equal(t, uint64(4), s.Accounts)
	assert.Equal(t, uint64(3), s.TransactionsByType["CCC-CCCHAIN-AST-02"])
	assert.Len(t, s.Generators, 3)

	ga, ok := b.GenesisAccount()
	assert.True(t, ok)
	assert.Equal(t, ga, s.GenesisAccount)
}

func TestVerifyDetectsInconsistencies(t *testing.T) {
	tests := map[string]func(b *Block){
		"height": func(b *Block) { b.Height = 2 },
		"magic":  func(b *Block) { b.Magic = "OTHER" },
		"count":  func(b *Block) { b.TransactionInfo.NumberOfTransactions++ },
		"total fee": func(b *Block) {
			b.TransactionInfo.TotalFee = tx.NewAmount(1)
		},
		"statistics": func(b *Block) {
			b.TransactionInfo.StatisticInfo.NumberOfTransactionsHashMap["CCC-CCCHAIN-LNS-00"] = 9
		},
		"tx fee": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[0].Transaction.Fee = tx.NewAmount(101)
		},
		"generator without tx": func(b *Block) {
			b.Params().NextRoundGenerators = append(b.Params().NextRoundGenerators, Generator{Address: "cNobody"})
		},
		"duplicate generator": func(b *Block) {
			g := b.Params().NextRoundGenerators
			b.Params().NextRoundGenerators = append(g, g[0])
		},
		"too many generators": func(b *Block) { b.Params().BlockPerRound = 2 },
		"supply":              func(b *Block) { b.Params().MaxSupply = tx.NewAmount(1) },
		"tx magic": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[1].Transaction.ToMagic = "OTHER"
		},
		"tx not effective": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[1].Transaction.ApplyBlockHeight = 2
			b.TransactionInfo.TransactionInBlocks[1].Transaction.EffectiveBlockHeight = 3
		},
		"tx foreign chain": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[0].Transaction.Type = "BFM-BFMETA-LNS-00"
		},
		"second public key": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[5].Transaction.SenderPublicKey = b.GeneratorPublicKey
		},
		"tindex gap":     func(b *Block) { b.TransactionInfo.TransactionInBlocks[2].TIndex = 9 },
		"previous block": func(b *Block) { b.PreviousBlockSignature = "00ff" },
		"start tindex":   func(b *Block) { b.TransactionInfo.StartTIndex = 1 },
		"offset":         func(b *Block) { b.TransactionInfo.Offset++ },
		"total amount": func(b *Block) {
			b.TransactionInfo.TotalAmount = tx.NewAmount(1)
		},
		"missing transaction": func(b *Block) {
			b.TransactionInfo.TransactionInBlocks[2].Transaction = nil
		},
		"tx window too wide": func(b *Block) {
			b.Params().MaxApplyAndConfirmedBlockHeightDiff = 5
			b.TransactionInfo.TransactionInBlocks[1].Transaction.ApplyBlockHeight = 1
			b.TransactionInfo.TransactionInBlocks[1].Transaction.EffectiveBlockHeight = 10
		},
		"repeated tx": func(b *Block) {
			ti := &b.TransactionInfo
			dup := ti.TransactionInBlocks[1]
			dup.TIndex = uint64(len(ti.TransactionInBlocks))
			ti.TransactionInBlocks = append(ti.TransactionInBlocks, dup)
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := Default()
			require.NoError(t, err)

			mutate(b)

			r := Verify(b, VerifyOptions{})
			assert.False(t, r.OK())
			assert.Error(t, r.Err())
			assert.NotEmpty(t, r.Violations())
		})
	}
}

func TestBuilderCryptographic(t *testing.T) {
	b, _ := buildTestBlock(t)

	r := Verify(b, VerifyOptions{Cryptographic: true})
	require.True(t, r.OK(), r.String())

	assert.Equal(t, uint64(5), b.TransactionInfo.NumberOfTransactions)
	assert.Equal(t, tx.NewAmount(1500), b.TransactionInfo.TotalAmount)
	assert.Equal(t, tx.NewAmount(36), b.TransactionInfo.TotalFee)
	assert.NotEmpty(t, b.TransactionInfo.PayloadHash)

	d, err := json.Marshal(b)
	require.NoError(t, err)

	decoded, err := Decode(bytes.NewReader(d))
	require.NoError(t, err)

	r = Verify(decoded, VerifyOptions{Cryptographic: true})
	assert.True(t, r.OK(), r.String())

	decoded.TransactionInfo.TransactionInBlocks[1].Transaction.Timestamp = 99
	r = Verify(decoded, VerifyOptions{Cryptographic: true})
	assert.False(t, r.OK())
	assert.ErrorIs(t, r.Err(), tx.ErrBadSignature)
}

func TestVerifyRejectsRepeatedTx(t *testing.T) {
	g := newSigner(t, "tGenesis")

	b, err := NewBuilder(testParams()).
		AddGenerator("tForger", 0).
		Transfer(g, "tForger", tx.NewAmount(1000), tx.NewAmount(1)).
		Transfer(g, "tForger", tx.NewAmount(1000), tx.NewAmount(1)).
		Build(g)
	require.NoError(t, err)

	txs := b.Transactions()
	first, err := txs[0].ID()
	require.NoError(t, err)
	second, err := txs[1].ID()
	require.NoError(t, err)
	require.Equal(t, first, second)

	r := Verify(b, VerifyOptions{Cryptographic: true})
	assert.False(t, r.OK())
	assert.Len(t, r.Violations(), 1)
	assert.ErrorIs(t, r.Err(), ErrInvalidBlock)
}

func TestBuilderUnknownFactory(t *testing.T) {
	g := newSigner(t, "tGenesis")

	_, err := NewBuilder(testParams()).
		IssueEntity(g, "", "missing", "missing_1", tx.NewAmount(1)).
		Build(g)
	assert.Error(t, err)
}

func TestDefaultFailsCryptographic(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	r := Verify(b, VerifyOptions{Cryptographic: true})
	assert.False(t, r.OK())
}

func TestMsgpackRoundTrip(t *testing.T) {
	b, _ := buildTestBlock(t)

	s, err := EncodeMsgpack(b)
	require.NoError(t, err)

	decoded, err := DecodeMsgpack(s)
	require.NoError(t, err)

	assert.Equal(t, b, decoded)
	assert.True(t, Verify(decoded, VerifyOptions{Cryptographic: true}).OK())
}

func TestDecodeMsgpackRejectsExtraPayload(t *testing.T) {
	b, _ := buildTestBlock(t)

	txs := b.Transactions()
	txs[0].Asset.TransferAsset = txs[1].Asset.TransferAsset

	s, err := EncodeMsgpack(b)
	require.NoError(t, err)

	_, err = DecodeMsgpack(s)
	assert.ErrorIs(t, err, tx.ErrPayloadMismatch)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, DefaultJSON, 0600))

	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "XXVXQ", b.Magic)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestComputeStatisticsForeignAsset(t *testing.T) {
	chain := AssetKey{Magic: "M", AssetType: "NAT"}
	pk := "00000000000000000000000000000000000000000000000000000000000000aa"

	txs := []*tx.Tx{
		{
			Version: 1, Type: "AST-02", SenderID: "a", SenderPublicKey: pk, RecipientID: "b",
			Fee: tx.NewAmount(1),
			Asset: tx.Asset{TransferAsset: &tx.TransferAsset{
				SourceChainMagic: "M", AssetType: "GEM", Amount: tx.NewAmount(7),
			}},
		},
		{
			Version: 1, Type: "AST-02", SenderID: "b", SenderPublicKey: pk, RecipientID: "c",
			Fee: tx.NewAmount(2),
			Asset: tx.Asset{TransferAsset: &tx.TransferAsset{
				SourceChainMagic: "M", AssetType: "NAT", Amount: tx.NewAmount(3),
			}},
		},
	}

	s, err := ComputeStatistics(chain, txs)
	require.NoError(t, err)

	assert.Equal(t, tx.NewAmount(3), s.TotalFee)
	assert.Equal(t, tx.NewAmount(10), s.TotalAsset)
	assert.Equal(t, tx.NewAmount(3), s.TotalChainAsset)
	assert.Equal(t, uint64(3), s.TotalAccount)
	assert.Equal(t, uint64(2), s.NumberOfTransactionsHashMap["AST-02"])

	nat := s.MagicAssetTypeTypeStatisticHashMap["M"].AssetTypeTypeStatisticHashMap["NAT"].Total
	assert.Equal(t, Statistic{
		ChangeAmount:     tx.NewAmount(6),
		ChangeCount:      4,
		MoveAmount:       tx.NewAmount(3),
		TransactionCount: 2,
	}, nat)

	gem := s.MagicAssetTypeTypeStatisticHashMap["M"].AssetTypeTypeStatisticHashMap["GEM"].Total
	assert.Equal(t, Statistic{
		ChangeAmount:     tx.NewAmount(7),
		ChangeCount:      2,
		MoveAmount:       tx.NewAmount(7),
		TransactionCount: 1,
	}, gem)

	assert.Empty(t, s.Diff(s))
	other := s
	other.TotalAccount = 1
	assert.Len(t, s.Diff(other), 1)
}
