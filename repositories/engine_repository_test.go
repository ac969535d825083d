package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"enricher-worker/logging"
)

func newEngineTestRepo(t *testing.T, handler http.HandlerFunc) (*EngineRepository, func()) {
	server := httptest.NewServer(handler)
	fetcher := NewJSONFetcher(server.Client(), logging.Discard(), "engine")
	repo := NewEngineRepository(server.Client(), server.URL+"/rpc", server.URL, "SCT", fetcher, logging.Discard())
	repo.now = func() time.Time { return time.UnixMilli(42) }
	return repo, server.Close
}

func TestEngineRepository_FindBalance(t *testing.T) {
	repo, done := newEngineTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/contracts", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Method string        `json:"method"`
			Params findOneParams `json:"params"`
		}
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "findOne", req.Method)
		assert.Equal(t, "balances", req.Params.Table)
		assert.Equal(t, map[string]string{"account": "alice", "symbol": "SCT"}, req.Params.Query)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"account":"alice","symbol":"SCT","balance":"12.5"}}`))
	})
	defer done()

	balance := repo.FindBalance(context.TODO(), "alice")
	assert.Equal(t, "12.5", balance["balance"])
}

func TestEngineRepository_FindBalance_None(t *testing.T) {
	repo, done := newEngineTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	})
	defer done()

	assert.Nil(t, repo.FindBalance(context.TODO(), "alice"))
}

func TestEngineRepository_FindBalance_Failure(t *testing.T) {
	repo, done := newEngineTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer done()

	assert.Nil(t, repo.FindBalance(context.TODO(), "alice"))
}

func TestEngineRepository_GetAccountHistory(t *testing.T) {
	repo, done := newEngineTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/accounts/history", r.URL.Path)
		assert.Equal(t, "alice", q.Get("account"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "user", q.Get("type"))
		assert.Equal(t, "SCT", q.Get("symbol"))
		assert.Equal(t, "42", q.Get("v"))
		w.Write([]byte(`[{"id":"t1"},{"id":"t2"}]`))
	})
	defer done()

	history := repo.GetAccountHistory(context.TODO(), "alice")
	assert.Len(t, history, 2)
}

func TestEngineRepository_GetAccountHistory_Failure(t *testing.T) {
	repo, done := newEngineTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	assert.Nil(t, repo.GetAccountHistory(context.TODO(), "alice"))
}
