package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/ccgenesis/pkg/genesis"
)

type Chain struct {
	// GenesisFile is a JSON genesis document. GenesisData is a base64 msgpack
	// genesis and wins when both are set. With neither the embedded devnet
	// genesis is used.
	GenesisFile string
	GenesisData string

	VerifyCrypto bool
}

const (
	Cfg_chain_genesis     = "chain.genesis"
	Cfg_chain_genesisData = "chain.genesisData"
	Cfg_verify_crypto     = "verify.crypto"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_genesis:     "",
		Cfg_chain_genesisData: "",
		Cfg_verify_crypto:     false,
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{
		GenesisFile:  viper.GetString(Cfg_chain_genesis),
		GenesisData:  viper.GetString(Cfg_chain_genesisData),
		VerifyCrypto: viper.GetBool(Cfg_verify_crypto),
	}

	return c, nil
}

// Genesis loads the configured genesis block.
func (c *Chain) Genesis() (*genesis.Block, error) {
	switch {
	case c.GenesisData != "":
		b, err := genesis.DecodeMsgpack(c.GenesisData)
		if err != nil {
			return nil, errors.Wrap(err, "decoding genesis data")
		}
		return b, nil
	case c.GenesisFile != "":
		return genesis.LoadFile(c.GenesisFile)
	default:
		return genesis.Default()
	}
}

func (c *Chain) VerifyOptions() genesis.VerifyOptions {
	return genesis.VerifyOptions{Cryptographic: c.VerifyCrypto}
}
