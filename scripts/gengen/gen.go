package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/storage"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	params := genesis.Asset{
		ChainName:                           "testnet",
		AssetType:                           "TNT",
		Magic:                               "TNETX",
		GenesisLocationName:                 "genesis.testnet",
		BeginEpochTime:                      time.Now().Unix(),
		GenesisAmount:                       tx.MustParseAmount("10000000000000000"),
		MaxSupply:                           tx.MustParseAmount("100000000000000000"),
		MinTransactionFeePerByte:            tx.Ratio{Numerator: 3, Denominator: 10},
		MaxTransactionSize:                  409600,
		MaxBlockSize:                        838860800,
		MaxTPSPerBlock:                      5000,
		MaxApplyAndConfirmedBlockHeightDiff: 5760,
		BlockPerRound:                       50,
		ForgeInterval:                       15,
		BasicRewards:                        tx.NewAmount(1000),
	}

	holder := signer("tGenesis")
	forgers := []*genesis.Signer{signer("tForgerA"), signer("tForgerB")}

	bd := genesis.NewBuilder(params).
		WithTimestamp(0).
		WithReward(params.BasicRewards).
		RegisterName(holder, params.GenesisLocationName, tx.NewAmount(100))

	for _, f := range forgers {
		bd.AddGenerator(f.Address, 0).
			Transfer(holder, f.Address, tx.NewAmount(1_000_000), tx.NewAmount(100))
	}

	bd.IssueFactory(forgers[0], "forge", tx.NewAmount(10), tx.NewAmount(200)).
		IssueEntity(forgers[0], forgers[1].Address, "forge", "forge_0001", tx.NewAmount(50))

	block, err := bd.Build(holder)
	if err != nil {
		panic(err)
	}

	// dry run the import so a broken genesis never gets printed
	if _, err := storage.ImportGenesis(ctx, storage.NewMemStore(), block,
		storage.WithVerifyOptions(genesis.VerifyOptions{Cryptographic: true})); err != nil {
		panic(err)
	}

	j, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		panic(err)
	}

	b64, err := genesis.EncodeMsgpack(block)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Genesis:\n%s\n\nGenesis Config (chain.genesisData):\n%s\n", j, b64)
}

func signer(address string) *genesis.Signer {
	s, err := genesis.NewSigner(address, rand.Reader)
	if err != nil {
		panic(err)
	}
	return s
}
