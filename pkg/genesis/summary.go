package genesis

import (
	"github.com/tcfw/ccgenesis/pkg/tx"
)

// Summary is a compact view of a genesis block for display.
type Summary struct {
	ChainName          string             `json:"chainName" yaml:"chainName"`
	AssetType          string             `json:"assetType" yaml:"assetType"`
	Magic              string             `json:"magic" yaml:"magic"`
	GeneratorPublicKey string             `json:"generatorPublicKey" yaml:"generatorPublicKey"`
	GenesisAccount     string             `json:"genesisAccount,omitempty" yaml:"genesisAccount,omitempty"`
	GenesisAmount      tx.Amount          `json:"genesisAmount" yaml:"genesisAmount"`
	MaxSupply          tx.Amount          `json:"maxSupply" yaml:"maxSupply"`
	Reward             tx.Amount          `json:"reward" yaml:"reward"`
	BlockPerRound      uint64             `json:"blockPerRound" yaml:"blockPerRound"`
	ForgeInterval      uint64             `json:"forgeInterval" yaml:"forgeInterval"`
	Transactions       uint64             `json:"transactions" yaml:"transactions"`
	TransactionsByType map[tx.Type]uint64 `json:"transactionsByType" yaml:"transactionsByType"`
	TotalFee           tx.Amount          `json:"totalFee" yaml:"totalFee"`
	TotalAmount        tx.Amount          `json:"totalAmount" yaml:"totalAmount"`
	Accounts           uint64             `json:"accounts" yaml:"accounts"`
	Generators         []Generator        `json:"generators" yaml:"generators"`
}

func Summarize(b *Block) *Summary {
	p := b.Params()
	ti := &b.TransactionInfo
	ga, _ := b.GenesisAccount()

	return &Summary{
		ChainName:          p.ChainName,
		AssetType:          p.AssetType,
		Magic:              b.Magic,
		GeneratorPublicKey: b.GeneratorPublicKey,
		GenesisAccount:     ga,
		GenesisAmount:      p.GenesisAmount,
		MaxSupply:          p.MaxSupply,
		Reward:             b.Reward,
		BlockPerRound:      p.BlockPerRound,
		ForgeInterval:      p.ForgeInterval,
		Transactions:       ti.NumberOfTransactions,
		TransactionsByType: ti.StatisticInfo.NumberOfTransactionsHashMap,
		TotalFee:           ti.TotalFee,
		TotalAmount:        ti.TotalAmount,
		Accounts:           ti.StatisticInfo.TotalAccount,
		Generators:         p.NextRoundGenerators,
	}
}
