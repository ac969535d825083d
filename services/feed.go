package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"enricher-worker/domain"
)

// FetchFeed returns one page of enriched posts. Listings the curation API can
// sort itself are driven by the curation API; all others are fetched from the
// primary API and filtered down to posts with curation data.
func (s *EnricherService) FetchFeed(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) domain.FeedResult {
	if order, ok := call.CurationOrder(); ok {
		return s.fetchCurationFeed(ctx, order, query)
	}
	return s.fetchPrimaryFeed(ctx, call, query)
}

func (s *EnricherService) fetchCurationFeed(ctx context.Context, order string, query domain.FeedQuery) domain.FeedResult {
	records := s.curationAPI.GetDiscussions(ctx, order, query)

	feed := make([]domain.Content, len(records))
	var g errgroup.Group
	for i, rec := range records {
		g.Go(func() error {
			feed[i] = s.mergeCuration(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()

	reps := s.resolveReputations(ctx, contentAuthors(feed))
	for _, c := range feed {
		if rep, ok := reps[c.Author()]; ok {
			c[domain.FieldAuthorReputation] = rep
		}
	}

	return pageResult(feed, query.Limit)
}

// mergeCuration builds a post from a curation record, going to the primary
// API only when the record lacks body or reply count.
func (s *EnricherService) mergeCuration(ctx context.Context, rec domain.CurationRecord) domain.Content {
	var content domain.Content
	if rec.Incomplete() {
		if key, ok := rec.Key(); ok {
			content = s.getContent(ctx, key)
		}
		if content == nil {
			content = domain.Content{}
		}
	} else {
		content = rec.Draft()
	}
	content.Overlay(rec)
	content.SetScotData(s.tokenPayload(rec))
	return content
}

func (s *EnricherService) fetchPrimaryFeed(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) domain.FeedResult {
	posts, err := s.contentAPI.GetDiscussions(ctx, call, query)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"call": call,
			"tag":  query.Tag,
		}).Error("failed to fetch discussions")
	}

	feed := make([]domain.Content, 0, len(posts))
	for _, post := range posts {
		if post != nil {
			feed = append(feed, post)
		}
	}

	var g errgroup.Group
	for _, post := range feed {
		g.Go(func() error {
			payload := s.curationAPI.GetContentData(ctx, post.Key())
			if rec, ok := payload.Token(s.symbol); ok {
				post.Overlay(rec)
			}
			post.SetScotData(payload)
			return nil
		})
	}
	_ = g.Wait()

	// Pagination is decided on the page as fetched; the filter below only
	// affects what is shown.
	result := pageResult(feed, query.Limit)

	shown := make([]domain.Content, 0, len(feed))
	for _, post := range feed {
		if post.HasToken(s.symbol) {
			shown = append(shown, post)
		}
	}
	result.FeedData = shown
	return result
}

func pageResult(feed []domain.Content, limit int) domain.FeedResult {
	if feed == nil {
		feed = []domain.Content{}
	}
	result := domain.FeedResult{
		FeedData:  feed,
		EndOfData: len(feed) < limit,
	}
	if len(feed) > 0 {
		result.LastValue = feed[len(feed)-1]
	}
	return result
}
