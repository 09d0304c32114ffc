package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/ccgenesis/pkg/genesis"
)

var (
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Recount the genesis statistics and compare them with the declared ones",
		RunE:  runStats,
	}
)

func runStats(cmd *cobra.Command, args []string) error {
	_, g, err := loadGenesis()
	if err != nil {
		return err
	}

	computed, err := genesis.ComputeStatistics(g.ChainAsset(), g.Transactions())
	if err != nil {
		return errors.Wrap(err, "computing statistics")
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "total fee\t%s\n", computed.TotalFee)
	fmt.Fprintf(tw, "total asset\t%s\n", computed.TotalAsset)
	fmt.Fprintf(tw, "total chain asset\t%s\n", computed.TotalChainAsset)
	fmt.Fprintf(tw, "total account\t%d\n", computed.TotalAccount)

	for _, t := range sortedTypes(computed.NumberOfTransactionsHashMap) {
		fmt.Fprintf(tw, "  %s\t%d\n", t, computed.NumberOfTransactionsHashMap[t])
	}

	lines := []string{}
	for magic, ats := range computed.MagicAssetTypeTypeStatisticHashMap {
		for at, ts := range ats.AssetTypeTypeStatisticHashMap {
			lines = append(lines, fmt.Sprintf("%s/%s\tchange %s (%d)\tmove %s\ttxs %d\n",
				magic, at, ts.Total.ChangeAmount, ts.Total.ChangeCount, ts.Total.MoveAmount, ts.Total.TransactionCount))
		}
	}
	sort.Strings(lines)

	for _, l := range lines {
		fmt.Fprint(tw, l)
	}

	diff := g.TransactionInfo.StatisticInfo.Diff(computed)
	if len(diff) == 0 {
		fmt.Fprintf(tw, "declared\tconsistent\n")
	}
	for _, d := range diff {
		fmt.Fprintf(tw, "mismatch\t%s\n", d)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(diff) != 0 {
		return errors.Wrapf(genesis.ErrInconsistentTotals, "%d statistics differ", len(diff))
	}

	return nil
}
