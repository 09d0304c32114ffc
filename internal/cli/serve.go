package cli

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/ccgenesis/internal/api"
	"github.com/tcfw/ccgenesis/internal/config"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		RunE:  runServe,
		Short: "import the genesis if needed and serve it over HTTP",
	}
)

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "api listen address")
	viper.BindPFlag(config.Cfg_api_listen, serveCmd.Flags().Lookup("listen"))
}

func runServe(cmd *cobra.Command, args []string) error {
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

	if !viper.GetBool(config.Cfg_verbose) {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := api.NewAPI(s, g)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		logging.Entry().WithField("addr", cfg.API().Listen).Info("starting api")
		if err := a.ListenAndServe(cfg.API().Listen); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitExit(ctx):
		sctx, scancel := context.WithTimeout(ctx, 5*time.Second)
		defer scancel()
		return a.Shutdown(sctx)
	}
}
