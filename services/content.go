package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"enricher-worker/domain"
)

// FetchContent loads one post and attaches its curation payload under
// scotData only. Curation vote counts lag the chain, so they must not
// replace the post's own fields here.
func (s *EnricherService) FetchContent(ctx context.Context, author, permlink string) domain.Content {
	key := domain.NewContentKey(author, permlink)

	var content domain.Content
	var payload domain.ScotPayload
	var g errgroup.Group
	g.Go(func() error {
		content = s.getContent(ctx, key)
		return nil
	})
	g.Go(func() error {
		payload = s.curationAPI.GetContentData(ctx, key)
		return nil
	})
	_ = g.Wait()

	if content == nil {
		content = domain.Content{}
	}
	content.SetScotData(payload)
	return content
}
