package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/ccgenesis/pkg/genesis"
	"github.com/tcfw/ccgenesis/pkg/storage"
)

const (
	holder  = "cGenesis6Qx4w8HcNbV1vJzT3eRkq9mYp2a"
	forgerB = "cForgerBp4Ny9sFq2ZkD7hLm5xWc3vTg8u"
)

func setupTestRouter(t *testing.T) (http.Handler, *genesis.Block) {
	gin.SetMode(gin.TestMode)

	g, err := genesis.Default()
	if err != nil {
		t.Fatal(err)
	}

	s := storage.NewMemStore()
	if _, err := storage.ImportGenesis(context.Background(), s, g); err != nil {
		t.Fatal(err)
	}

	a, err := NewAPI(s, g)
	if err != nil {
		t.Fatal(err)
	}

	return a.Handler(), g
}

func get(t *testing.T, h http.Handler, path string, out interface{}) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	h.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}

	return w.Code
}

func TestHealth(t *testing.T) {
	h, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestGenesisDocument(t *testing.T) {
	h, g := setupTestRouter(t)

	var doc genesis.Block
	assert.Equal(t, 200, get(t, h, "/genesis", &doc))
	assert.Equal(t, g.Signature, doc.Signature)
	assert.Len(t, doc.Transactions(), 6)
}

func TestGenesisSummary(t *testing.T) {
	h, _ := setupTestRouter(t)

	var s map[string]interface{}
	assert.Equal(t, 200, get(t, h, "/genesis/summary", &s))
	assert.Equal(t, "ccchain", s["chainName"])
	assert.Equal(t, "650", s["totalFee"])
	assert.Equal(t, holder, s["genesisAccount"])
}

func TestGenesisStatistics(t *testing.T) {
	h, _ := setupTestRouter(t)

	var resp statisticsResponse
	assert.Equal(t, 200, get(t, h, "/genesis/statistics", &resp))
	assert.True(t, resp.Consistent)
	assert.Empty(t, resp.Differences)
	assert.Equal(t, uint64(4), resp.Computed.TotalAccount)
}

func TestGenesisVerify(t *testing.T) {
	h, _ := setupTestRouter(t)

	tests := map[string]struct {
		query  string
		code   int
		expect bool
	}{
		"structural":    {"", 200, true},
		"cryptographic": {"?crypto=true", 200, false},
		"bad flag":      {"?crypto=maybe", 400, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var resp verifyResponse
			assert.Equal(t, tc.code, get(t, h, "/genesis/verify"+tc.query, &resp))
			assert.Equal(t, tc.expect, resp.OK)
			if tc.code == 200 && !tc.expect {
				assert.NotEmpty(t, resp.Violations)
			}
		})
	}
}

func TestAccounts(t *testing.T) {
	h, _ := setupTestRouter(t)

	var accounts []map[string]interface{}
	assert.Equal(t, 200, get(t, h, "/accounts", &accounts))
	assert.Len(t, accounts, 4)

	var a map[string]interface{}
	assert.Equal(t, 200, get(t, h, "/accounts/"+holder, &a))
	assert.Equal(t, holder, a["address"])
	assert.Equal(t, map[string]interface{}{"XXVXQ/CCC": "9999999997001250"}, a["balances"])
	assert.True(t, strings.HasPrefix(a["publicKeyMultibase"].(string), "z"))

	var e Error
	assert.Equal(t, 404, get(t, h, "/accounts/nobody", &e))
	assert.Equal(t, 404, e.Code)
}

func TestLookups(t *testing.T) {
	h, _ := setupTestRouter(t)

	var n storage.NameRecord
	assert.Equal(t, 200, get(t, h, "/names/genesis.ccchain", &n))
	assert.Equal(t, holder, n.Owner)

	var f storage.FactoryRecord
	assert.Equal(t, 200, get(t, h, "/factories/forge", &f))
	assert.Equal(t, uint64(1), f.Issued)

	var e storage.EntityRecord
	assert.Equal(t, 200, get(t, h, "/entities/forge_0001", &e))
	assert.Equal(t, forgerB, e.Owner)

	var g []genesis.Generator
	assert.Equal(t, 200, get(t, h, "/generators", &g))
	assert.Len(t, g, 3)
}

func TestTx(t *testing.T) {
	h, g := setupTestRouter(t)

	id, err := g.Transactions()[2].ID()
	if err != nil {
		t.Fatal(err)
	}

	var resp txResponse
	assert.Equal(t, 200, get(t, h, "/tx/"+id.String(), &resp))
	assert.Equal(t, id.String(), resp.ID)
	assert.NotEmpty(t, resp.Block)
	assert.Equal(t, forgerB, resp.Transaction.RecipientID)

	var e Error
	assert.Equal(t, 400, get(t, h, "/tx/not-a-cid", &e))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestRouter(t)

	get(t, h, "/health", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "ccgenesis_api_requests_total")
}
