package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enricher-worker/domain"
)

// rpcServer answers each JSON-RPC method with a canned result.
func rpcServer(t *testing.T, results map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		assert.NoError(t, json.Unmarshal(body, &req))

		result, ok := results[req.Method]
		if !ok {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
			return
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + `}`))
	}))
}

func TestSteemClient_GetContent(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"condenser_api.get_content": `{"author":"alice","permlink":"p1","children":5}`,
	})
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	content, err := client.GetContent(context.TODO(), "alice", "p1")

	require.NoError(t, err)
	assert.Equal(t, domain.NewContentKey("alice", "p1"), content.Key())
	assert.Equal(t, json.Number("5"), content["children"])
}

func TestSteemClient_GetAccounts(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"condenser_api.get_accounts": `[{"name":"alice","reputation":"95832978796820"}]`,
	})
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	accounts, err := client.GetAccounts(context.TODO(), []string{"alice"})

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "95832978796820", accounts[0]["reputation"])
}

func TestSteemClient_GetState(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"condenser_api.get_state": `{"content":{"alice/p1":{"author":"alice"}},"accounts":{},"props":{}}`,
	})
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	state, err := client.GetState(context.TODO(), "/trending")

	require.NoError(t, err)
	assert.Contains(t, state.Content, domain.NewContentKey("alice", "p1"))
	assert.Contains(t, state.Extra, "props")
}

func TestSteemClient_GetDiscussions(t *testing.T) {
	server := rpcServer(t, map[string]string{
		"condenser_api.get_discussions_by_blog": `[{"author":"alice","permlink":"p1"},{"author":"alice","permlink":"p2"}]`,
	})
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	posts, err := client.GetDiscussions(context.TODO(), domain.CallDiscussionsByBlog, domain.FeedQuery{Tag: "alice", Limit: 2})

	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestSteemClient_RPCError(t *testing.T) {
	server := rpcServer(t, map[string]string{})
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	_, err := client.GetContent(context.TODO(), "alice", "p1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestSteemClient_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSteemClient(server.Client(), server.URL)
	_, err := client.GetState(context.TODO(), "/")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-200 status code")
}
