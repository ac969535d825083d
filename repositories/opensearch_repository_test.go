package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enricher-worker/domain"
)

type mockTransport struct {
	Response *http.Response
	Error    error
	Request  *http.Request
	Body     []byte
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Request = req
	if req.Body != nil {
		m.Body, _ = io.ReadAll(req.Body)
	}
	return m.Response, m.Error
}

func newMockOpenSearch(t *testing.T, status int, body string) (*OpenSearchRepository, *mockTransport) {
	transport := &mockTransport{Response: &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}}
	client, err := opensearch.NewClient(opensearch.Config{Transport: transport})
	require.NoError(t, err)
	return NewOpenSearchRepository(client, "enriched_posts"), transport
}

func TestOpenSearchRepository_IndexContent(t *testing.T) {
	repo, transport := newMockOpenSearch(t, 201, `{"result":"created"}`)

	post := domain.Content{
		"author":   "alice",
		"permlink": "hello-world",
		"title":    "Hello",
		"body":     "<p>Hi <a href=\"https://x.io\">there</a></p>",
		"scotData": map[string]any{"SCT": map[string]any{"pending_token": 5}},
	}
	err := repo.IndexContent(context.TODO(), "job-1", "SCT", post)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, transport.Request.Method)
	assert.Contains(t, transport.Request.URL.Path, "/enriched_posts/_doc/alice:hello-world")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(transport.Body, &doc))
	assert.Equal(t, "Hi there", doc["content"])
	assert.Equal(t, true, doc["has_curation"])
	assert.Equal(t, []any{"https://x.io"}, doc["links"])
	assert.Equal(t, map[string]any{"pending_token": float64(5)}, doc["curation"])
}

func TestOpenSearchRepository_IndexContent_Error(t *testing.T) {
	repo, _ := newMockOpenSearch(t, 500, `{"error":"internal error"}`)

	err := repo.IndexContent(context.TODO(), "job-1", "SCT", domain.Content{"author": "alice", "permlink": "p1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error indexing document")
}

func TestOpenSearchRepository_IndexContent_MissingKey(t *testing.T) {
	repo, transport := newMockOpenSearch(t, 201, `{}`)

	err := repo.IndexContent(context.TODO(), "job-1", "SCT", domain.Content{})

	assert.Error(t, err)
	assert.Nil(t, transport.Request)
}
