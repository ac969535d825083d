package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"enricher-worker/domain"
)

// ScotRepository reads the curation API. Every method degrades to an empty
// value when the underlying fetch fails or returns an unexpected shape.
type ScotRepository struct {
	fetcher JSONFetcher
	baseURL string
	token   string
	logger  *logrus.Logger
	now     func() time.Time
}

func NewScotRepository(fetcher JSONFetcher, baseURL, token string, logger *logrus.Logger) *ScotRepository {
	return &ScotRepository{
		fetcher: fetcher,
		baseURL: baseURL,
		token:   token,
		logger:  logger,
		now:     time.Now,
	}
}

// GetDiscussions returns one curation-sorted page for order ("trending", "hot", ...).
func (r *ScotRepository) GetDiscussions(ctx context.Context, order string, query domain.FeedQuery) []domain.CurationRecord {
	body := r.fetcher.FetchJSON(ctx, r.baseURL+"/get_discussions_by_"+order, query.CurationParams(r.token))

	var records []domain.CurationRecord
	if err := domain.DecodeJSON(body, &records); err != nil {
		r.logger.WithField("order", order).Debug("curation feed returned no list")
		return nil
	}
	return records
}

// GetContentData returns the per-token curation payload for one post.
func (r *ScotRepository) GetContentData(ctx context.Context, key domain.ContentKey) domain.ScotPayload {
	body := r.fetcher.FetchJSON(ctx, r.baseURL+"/"+key.AuthorPerm(), nil)
	return r.decodePayload(body)
}

// GetAccountData returns the per-token status of an account. v busts
// intermediate caches and carries no meaning.
func (r *ScotRepository) GetAccountData(ctx context.Context, account string) domain.ScotPayload {
	params := map[string]string{"v": strconv.FormatInt(r.now().UnixMilli(), 10)}
	body := r.fetcher.FetchJSON(ctx, r.baseURL+"/@"+account, params)
	return r.decodePayload(body)
}

func (r *ScotRepository) decodePayload(body []byte) domain.ScotPayload {
	var payload domain.ScotPayload
	if err := domain.DecodeJSON(body, &payload); err != nil || payload == nil {
		return domain.ScotPayload{}
	}
	return payload
}
