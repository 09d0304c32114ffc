package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/internal/metrics"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
	"github.com/tcfw/ccgenesis/pkg/cryptography"
	"github.com/tcfw/ccgenesis/pkg/storage"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

func init() {
	reg = append(reg, func() APIHandler { return &ledgerApi{} })
}

type ledgerApi struct {
	BaseHandler
}

func (la *ledgerApi) Routes(r gin.IRouter) {
	r.GET("/generators", la.generators)
	r.GET("/accounts", la.accounts)
	r.GET("/accounts/:address", la.account)
	r.GET("/names/:name", la.name)
	r.GET("/factories/:id", la.factory)
	r.GET("/entities/:id", la.entity)
	r.GET("/tx/:id", la.tx)
}

type accountView struct {
	*storage.Account
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
}

func newAccountView(a *storage.Account) accountView {
	v := accountView{Account: a}

	if a.PublicKey != "" {
		mb, err := cryptography.PublicKeyMultibase(a.PublicKey)
		if err != nil {
			logging.WithError(err).WithField("address", a.Address).Warn("encoding account key")
		}
		v.PublicKeyMultibase = mb
	}

	return v
}

func (la *ledgerApi) generators(c *gin.Context) {
	g, err := la.a.s.Generators(c.Request.Context())
	if err != nil {
		abortWithError(c, errors.Wrap(err, "listing generators"))
		return
	}

	c.JSON(http.StatusOK, g)
}

func (la *ledgerApi) accounts(c *gin.Context) {
	accounts, err := la.a.s.Accounts(c.Request.Context())
	if err != nil {
		abortWithError(c, errors.Wrap(err, "listing accounts"))
		return
	}

	metrics.Accounts.Set(float64(len(accounts)))

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, newAccountView(a))
	}

	c.JSON(http.StatusOK, views)
}

func (la *ledgerApi) account(c *gin.Context) {
	a, err := la.a.s.Account(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "account %s", c.Param("address")))
		return
	}

	c.JSON(http.StatusOK, newAccountView(a))
}

func (la *ledgerApi) name(c *gin.Context) {
	n, err := la.a.s.LookupName(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "name %s", c.Param("name")))
		return
	}

	c.JSON(http.StatusOK, n)
}

func (la *ledgerApi) factory(c *gin.Context) {
	f, err := la.a.s.Factory(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "factory %s", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, f)
}

func (la *ledgerApi) entity(c *gin.Context) {
	e, err := la.a.s.Entity(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "entity %s", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, e)
}

type txResponse struct {
	ID          string          `json:"id"`
	Block       storage.BlockID `json:"block"`
	Transaction *tx.Tx          `json:"transaction"`
}

func (la *ledgerApi) tx(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := tx.ParseTxID(c.Param("id"))
	if err != nil {
		abortWithError(c, errors.Wrap(errBadRequest, err.Error()))
		return
	}

	t, err := la.a.s.GetTx(ctx, id)
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "tx %s", id))
		return
	}

	b, err := la.a.s.GetTxBlock(ctx, id)
	if err != nil {
		abortWithError(c, errors.Wrapf(err, "block of tx %s", id))
		return
	}

	c.JSON(http.StatusOK, txResponse{ID: id.String(), Block: b.ID, Transaction: t})
}
