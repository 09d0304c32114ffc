package genesis

import (
	"sort"

	"github.com/tcfw/ccgenesis/pkg/tx"
)

const (
	Height = 1
)

type Generator struct {
	Address               string `json:"address" msgpack:"a" yaml:"address"`
	NumberOfForgeEntities uint64 `json:"numberOfForgeEntities" msgpack:"n" yaml:"numberOfForgeEntities"`
}

// Asset holds the chain wide economic parameters fixed at genesis.
type Asset struct {
	ChainName                           string      `json:"chainName" msgpack:"cn"`
	AssetType                           string      `json:"assetType" msgpack:"at"`
	Magic                               string      `json:"magic" msgpack:"m"`
	BNID                                string      `json:"bnid" msgpack:"bn"`
	BeginEpochTime                      int64       `json:"beginEpochTime" msgpack:"be"`
	GenesisLocationName                 string      `json:"genesisLocationName" msgpack:"gl"`
	GenesisAmount                       tx.Amount   `json:"genesisAmount" msgpack:"ga"`
	MaxSupply                           tx.Amount   `json:"maxSupply" msgpack:"ms"`
	MinTransactionFeePerByte            tx.Ratio    `json:"minTransactionFeePerByte" msgpack:"mf"`
	MaxTransactionSize                  uint64      `json:"maxTransactionSize" msgpack:"mts"`
	MaxTransactionBlobSize              uint64      `json:"maxTransactionBlobSize" msgpack:"mtb"`
	MaxBlockSize                        uint64      `json:"maxBlockSize" msgpack:"mbs"`
	MaxBlockBlobSize                    uint64      `json:"maxBlockBlobSize" msgpack:"mbb"`
	MaxTPSPerBlock                      uint64      `json:"maxTPSPerBlock" msgpack:"tps"`
	MaxApplyAndConfirmedBlockHeightDiff uint64      `json:"maxApplyAndConfirmedBlockHeightDiff" msgpack:"hd"`
	BlockPerRound                       uint64      `json:"blockPerRound" msgpack:"bpr"`
	ForgeInterval                       uint64      `json:"forgeInterval" msgpack:"fi"`
	BasicRewards                        tx.Amount   `json:"basicRewards" msgpack:"br"`
	NextRoundGenerators                 []Generator `json:"nextRoundGenerators" msgpack:"g"`
}

type BlockAsset struct {
	GenesisAsset Asset `json:"genesisAsset" msgpack:"g"`
}

type TransactionInBlock struct {
	TIndex      uint64 `json:"tIndex" msgpack:"i"`
	Transaction *tx.Tx `json:"transaction" msgpack:"t"`
}

type TransactionInfo struct {
	StartTIndex          uint64               `json:"startTindex" msgpack:"st"`
	Offset               uint64               `json:"offset" msgpack:"o"`
	NumberOfTransactions uint64               `json:"numberOfTransactions" msgpack:"n"`
	PayloadHash          string               `json:"payloadHash" msgpack:"ph"`
	PayloadLength        uint64               `json:"payloadLength" msgpack:"pl"`
	BlobSize             uint64               `json:"blobSize" msgpack:"bs"`
	TotalAmount          tx.Amount            `json:"totalAmount" msgpack:"ta"`
	TotalFee             tx.Amount            `json:"totalFee" msgpack:"tf"`
	TransactionInBlocks  []TransactionInBlock `json:"transactionInBlocks" msgpack:"txs"`
	StatisticInfo        StatisticInfo        `json:"statisticInfo" msgpack:"si"`
}

// Block is the genesis block snapshot.
type Block struct {
	Version                uint32            `json:"version" msgpack:"v"`
	Height                 uint64            `json:"height" msgpack:"h"`
	Timestamp              int64             `json:"timestamp" msgpack:"t"`
	BlockSize              uint64            `json:"blockSize" msgpack:"bs"`
	Signature              string            `json:"signature" msgpack:"s"`
	GeneratorPublicKey     string            `json:"generatorPublicKey" msgpack:"gk"`
	PreviousBlockSignature string            `json:"previousBlockSignature" msgpack:"ps"`
	Reward                 tx.Amount         `json:"reward" msgpack:"r"`
	Magic                  string            `json:"magic" msgpack:"m"`
	Remark                 map[string]string `json:"remark,omitempty" msgpack:"rm,omitempty"`
	Asset                  BlockAsset        `json:"asset" msgpack:"a"`
	TransactionInfo        TransactionInfo   `json:"transactionInfo" msgpack:"ti"`
}

// Params is shorthand for the genesis asset parameters.
func (b *Block) Params() *Asset {
	return &b.Asset.GenesisAsset
}

// ChainAsset is the native asset of the chain, the one fees are paid in.
func (b *Block) ChainAsset() AssetKey {
	return AssetKey{Magic: b.Magic, AssetType: b.Params().AssetType}
}

// Transactions returns the block transactions in tIndex order.
func (b *Block) Transactions() []*tx.Tx {
	tibs := make([]TransactionInBlock, len(b.TransactionInfo.TransactionInBlocks))
	copy(tibs, b.TransactionInfo.TransactionInBlocks)

	sort.SliceStable(tibs, func(i, j int) bool { return tibs[i].TIndex < tibs[j].TIndex })

	txs := make([]*tx.Tx, 0, len(tibs))
	for _, t := range tibs {
		txs = append(txs, t.Transaction)
	}

	return txs
}

// GenesisAccount returns the address that signs with the generator key. It
// receives the genesis amount.
func (b *Block) GenesisAccount() (string, bool) {
	for _, t := range b.Transactions() {
		if t.SenderPublicKey == b.GeneratorPublicKey {
			return t.SenderID, true
		}
	}
	return "", false
}

// AssetKey identifies an asset by the chain magic that issued it and its type.
type AssetKey struct {
	Magic     string `json:"magic" msgpack:"m"`
	AssetType string `json:"assetType" msgpack:"a"`
}

func (k AssetKey) String() string {
	return k.Magic + "/" + k.AssetType
}

// TransferKey is the asset key of a transfer payload.
func TransferKey(p *tx.TransferAsset) AssetKey {
	return AssetKey{Magic: p.SourceChainMagic, AssetType: p.AssetType}
}
