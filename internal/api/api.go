package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/storage"
)

type APIHandler interface {
	Setup(*Api) error
	Routes(gin.IRouter)
}

var (
	reg = []func() APIHandler{}
)

type BaseHandler struct {
	a *Api
}

func (b *BaseHandler) Setup(a *Api) error {
	b.a = a
	return nil
}

// Api serves the genesis document and the state imported from it.
type Api struct {
	s       storage.Store
	genesis *genesis.Block

	engine *gin.Engine
	srv    *http.Server
}

func NewAPI(s storage.Store, g *genesis.Block) (*Api, error) {
	a := &Api{
		s:       s,
		genesis: g,
		engine:  gin.New(),
	}

	a.engine.Use(gin.Recovery())
	a.engine.Use(requestLogger())
	a.engine.Use(requestMetrics())

	a.engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	a.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, mk := range reg {
		h := mk()
		if err := h.Setup(a); err != nil {
			return nil, errors.Wrap(err, "registering handler")
		}
		h.Routes(a.engine)
	}

	return a, nil
}

func (a *Api) Handler() http.Handler {
	return a.engine
}

func (a *Api) ListenAndServe(addr string) error {
	a.srv = &http.Server{
		Addr:              addr,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *Api) Shutdown(ctx context.Context) error {
	if a.srv == nil {
		return nil
	}

	return a.srv.Shutdown(ctx)
}
