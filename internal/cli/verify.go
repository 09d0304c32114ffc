package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/ccgenesis/internal/config"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
	"github.com/tcfw/ccgenesis/pkg/genesis"
)

var (
	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check the genesis block for internal consistency",
		RunE:  runVerify,
	}

	errVerifyFailed = errors.New("genesis verification failed")
)

func init() {
	verifyCmd.Flags().Bool("crypto", false, "also check tx signatures, payload hash and block signature")
	viper.BindPFlag(config.Cfg_verify_crypto, verifyCmd.Flags().Lookup("crypto"))
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, g, err := loadGenesis()
	if err != nil {
		return err
	}

	r := genesis.Verify(g, cfg.Chain().VerifyOptions())

	w := cmd.OutOrStdout()
	if r.OK() {
		fmt.Fprintln(w, "ok")
		return nil
	}

	for _, v := range r.Violations() {
		fmt.Fprintln(w, v)
	}

	logging.Entry().WithField("violations", len(r.Violations())).Debug("verification failed")

	return errors.Wrapf(errVerifyFailed, "%d violations", len(r.Violations()))
}
