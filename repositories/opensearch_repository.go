package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"enricher-worker/domain"
)

type OpenSearchRepository struct {
	client *opensearch.Client
	index  string
	now    func() time.Time
}

func NewOpenSearchRepository(client *opensearch.Client, index string) *OpenSearchRepository {
	return &OpenSearchRepository{client: client, index: index, now: time.Now}
}

// IndexContent indexes one enriched post. The document id is the post key so
// re-enriching a post replaces its previous document.
func (r *OpenSearchRepository) IndexContent(ctx context.Context, jobID, symbol string, post domain.Content) error {
	key := post.Key()
	if key.Author == "" || key.Permlink == "" {
		return fmt.Errorf("cannot index content without author and permlink")
	}

	body, _ := post["body"].(string)
	extracted := ExtractBodyText(body)

	document := map[string]interface{}{
		"author":       key.Author,
		"permlink":     key.Permlink,
		"title":        post["title"],
		"category":     post["category"],
		"content":      extracted.Text,
		"links":        extracted.Links,
		"images":       extracted.Images,
		"token":        symbol,
		"has_curation": post.HasToken(symbol),
		"job_id":       jobID,
		"indexed_at":   r.now().Format(time.RFC3339),
	}
	if rec, ok := scotRecord(post, symbol); ok {
		document["curation"] = rec
	}

	payload, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.index,
		DocumentID: key.Author + ":" + key.Permlink,
		Body:       bytes.NewReader(payload),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to execute index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

func scotRecord(post domain.Content, symbol string) (domain.CurationRecord, bool) {
	payload, ok := post.ScotData()
	if !ok {
		return nil, false
	}
	return payload.Token(symbol)
}
