package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/storage"
)

var (
	errBadRequest = errors.New("bad request")
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	}

	c.Error(err)
	c.AbortWithStatusJSON(code, Error{Code: code, Message: err.Error()})
}
