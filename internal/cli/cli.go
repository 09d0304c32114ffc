package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/ccgenesis/internal/config"
	"github.com/tcfw/ccgenesis/internal/metrics"
	istorage "github.com/tcfw/ccgenesis/internal/storage"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/storage"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ccgenesis",
		Short:         "Inspect, verify, import and serve a chain genesis block",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().StringP("genesis", "g", "", "genesis JSON file. blank uses the embedded devnet genesis")
	viper.BindPFlag(config.Cfg_chain_genesis, rootCmd.PersistentFlags().Lookup("genesis"))

	rootCmd.PersistentFlags().String("storage", "", "storage backend (memory|pebble)")
	viper.BindPFlag(config.Cfg_storage_backend, rootCmd.PersistentFlags().Lookup("storage"))

	rootCmd.PersistentFlags().String("storage-path", "", "pebble storage directory")
	viper.BindPFlag(config.Cfg_storage_path, rootCmd.PersistentFlags().Lookup("storage-path"))

	regCommands()
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logging.WithError(err).Error("command failed")
		return err
	}

	return nil
}

func loadGenesis() (*config.Config, *genesis.Block, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	g, err := cfg.Chain().Genesis()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading genesis")
	}

	return cfg, g, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage().Backend {
	case config.StorageBackendPebble:
		return istorage.NewPebbleStorage(cfg.Storage().Path)
	default:
		return storage.NewMemStore(), nil
	}
}

// importGenesis applies g to s unless a genesis is already there.
func importGenesis(ctx context.Context, cfg *config.Config, s storage.Store, g *genesis.Block) (storage.BlockID, error) {
	id, err := storage.ImportGenesis(ctx, s, g,
		storage.WithLogger(logging.Entry().WithField("component", "import")),
		storage.WithVerifyOptions(cfg.Chain().VerifyOptions()),
		storage.WithTxCallback(func(_ tx.TxID, t *tx.Tx) {
			metrics.ImportedTransactions.WithLabelValues(string(t.Type)).Inc()
		}),
	)
	if errors.Is(err, storage.ErrGenesisApplied) {
		b, err := s.GenesisBlock(ctx)
		if err != nil {
			return "", errors.Wrap(err, "reading stored genesis")
		}

		if b.Signature != g.Signature {
			logging.Entry().WithField("stored", b.ID).Warn("stored genesis differs from the configured one")
		}

		id = b.ID
	} else if err != nil {
		return "", err
	}

	accounts, err := s.Accounts(ctx)
	if err != nil {
		return "", errors.Wrap(err, "counting accounts")
	}
	metrics.Accounts.Set(float64(len(accounts)))

	return id, nil
}

func waitExit(ctx context.Context) <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
