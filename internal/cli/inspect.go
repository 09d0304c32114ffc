package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/tx"
	"gopkg.in/yaml.v3"
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print a summary of the genesis block",
		RunE:  runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringP("output", "o", "text", "output format (text|json|yaml)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, g, err := loadGenesis()
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")

	return writeSummary(cmd.OutOrStdout(), genesis.Summarize(g), output)
}

func writeSummary(w io.Writer, s *genesis.Summary, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return errors.Errorf("unknown output format %q", output)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "chain\t%s (%s)\n", s.ChainName, s.Magic)
	fmt.Fprintf(tw, "asset\t%s\n", s.AssetType)
	fmt.Fprintf(tw, "genesis amount\t%s\n", s.GenesisAmount)
	fmt.Fprintf(tw, "max supply\t%s\n", s.MaxSupply)
	fmt.Fprintf(tw, "reward\t%s\n", s.Reward)
	fmt.Fprintf(tw, "generator key\t%s\n", s.GeneratorPublicKey)
	fmt.Fprintf(tw, "genesis account\t%s\n", s.GenesisAccount)
	fmt.Fprintf(tw, "block per round\t%d\n", s.BlockPerRound)
	fmt.Fprintf(tw, "forge interval\t%d\n", s.ForgeInterval)
	fmt.Fprintf(tw, "transactions\t%d\n", s.Transactions)

	for _, t := range sortedTypes(s.TransactionsByType) {
		fmt.Fprintf(tw, "  %s\t%d\n", t, s.TransactionsByType[t])
	}

	fmt.Fprintf(tw, "total fee\t%s\n", s.TotalFee)
	fmt.Fprintf(tw, "total amount\t%s\n", s.TotalAmount)
	fmt.Fprintf(tw, "accounts\t%d\n", s.Accounts)
	fmt.Fprintf(tw, "generators\t%d\n", len(s.Generators))

	for _, g := range s.Generators {
		fmt.Fprintf(tw, "  %s\t%d\n", g.Address, g.NumberOfForgeEntities)
	}

	return tw.Flush()
}

func sortedTypes(m map[tx.Type]uint64) []tx.Type {
	types := make([]tx.Type, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}
