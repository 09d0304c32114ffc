package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/ccgenesis/pkg/cryptography"
)

var (
	accountCmd = &cobra.Command{
		Use:   "account <address>",
		Short: "Show the balances of an account after genesis",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccount,
	}
)

func runAccount(cmd *cobra.Command, args []string) error {
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

	if _, err := importGenesis(ctx, cfg, s, g); err != nil {
		return errors.Wrap(err, "importing genesis")
	}

	a, err := s.Account(ctx, args[0])
	if err != nil {
		return errors.Wrapf(err, "account %s", args[0])
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "address\t%s\n", a.Address)

	if a.PublicKey != "" {
		mb, err := cryptography.PublicKeyMultibase(a.PublicKey)
		if err != nil {
			return errors.Wrap(err, "encoding public key")
		}
		fmt.Fprintf(tw, "public key\t%s\n", mb)
	}

	keys := make([]string, 0, len(a.Balances))
	for k := range a.Balances {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, a.Balances[k])
	}

	return tw.Flush()
}
