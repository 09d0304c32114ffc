package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	importCmd = &cobra.Command{
		Use:   "import",
		Short: "Apply the genesis block to the configured store",
		RunE:  runImport,
	}
)

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, g, err := loadGenesis()
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "opening store")
	}
	defer s.Stop()

	id, err := importGenesis(ctx, cfg, s, g)
	if err != nil {
		return errors.Wrap(err, "importing genesis")
	}

	accounts, err := s.Accounts(ctx)
	if err != nil {
		return errors.Wrap(err, "listing accounts")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "genesis %s: %d transactions, %d accounts\n", id, len(g.Transactions()), len(accounts))

	return nil
}
