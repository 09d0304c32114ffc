package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/internal/metrics"
	"github.com/tcfw/ccgenesis/pkg/genesis"
)

func init() {
	reg = append(reg, func() APIHandler { return &genesisApi{} })
}

type genesisApi struct {
	BaseHandler
}

func (ga *genesisApi) Routes(r gin.IRouter) {
	g := r.Group("/genesis")
	{
		g.GET("", ga.document)
		g.GET("/summary", ga.summary)
		g.GET("/statistics", ga.statistics)
		g.GET("/verify", ga.verify)
	}
}

func (ga *genesisApi) document(c *gin.Context) {
	c.JSON(http.StatusOK, ga.a.genesis)
}

func (ga *genesisApi) summary(c *gin.Context) {
	c.JSON(http.StatusOK, genesis.Summarize(ga.a.genesis))
}

type statisticsResponse struct {
	Consistent  bool                  `json:"consistent"`
	Differences []string              `json:"differences,omitempty"`
	Declared    genesis.StatisticInfo `json:"declared"`
	Computed    genesis.StatisticInfo `json:"computed"`
}

func (ga *genesisApi) statistics(c *gin.Context) {
	b := ga.a.genesis

	computed, err := genesis.ComputeStatistics(b.ChainAsset(), b.Transactions())
	if err != nil {
		abortWithError(c, errors.Wrap(err, "computing statistics"))
		return
	}

	diff := b.TransactionInfo.StatisticInfo.Diff(computed)

	c.JSON(http.StatusOK, statisticsResponse{
		Consistent:  len(diff) == 0,
		Differences: diff,
		Declared:    b.TransactionInfo.StatisticInfo,
		Computed:    computed,
	})
}

type verifyResponse struct {
	OK         bool     `json:"ok"`
	Violations []string `json:"violations"`
}

func (ga *genesisApi) verify(c *gin.Context) {
	opts := genesis.VerifyOptions{}

	if v := c.Query("crypto"); v != "" {
		crypto, err := strconv.ParseBool(v)
		if err != nil {
			abortWithError(c, errors.Wrapf(errBadRequest, "crypto must be a boolean, got %q", v))
			return
		}
		opts.Cryptographic = crypto
	}

	r := genesis.Verify(ga.a.genesis, opts)
	metrics.VerificationViolations.Set(float64(len(r.Violations())))

	resp := verifyResponse{OK: r.OK(), Violations: []string{}}
	for _, v := range r.Violations() {
		resp.Violations = append(resp.Violations, v.Error())
	}

	c.JSON(http.StatusOK, resp)
}
