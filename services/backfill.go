package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"enricher-worker/domain"
)

// backfillMissing fetches the primary record for every curation record that
// lacks a body or reply count and is not in cache yet. Fetched records are
// stored under their own author/permlink.
func (s *EnricherService) backfillMissing(ctx context.Context, records []domain.CurationRecord, cache map[domain.ContentKey]domain.Content) {
	var missing []domain.ContentKey
	queued := make(map[domain.ContentKey]bool)
	for _, rec := range records {
		if !rec.Incomplete() {
			continue
		}
		key, ok := rec.Key()
		if !ok || queued[key] {
			continue
		}
		if _, cached := cache[key]; cached {
			continue
		}
		queued[key] = true
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return
	}

	fetched := make([]domain.Content, len(missing))
	var g errgroup.Group
	for i, key := range missing {
		g.Go(func() error {
			s.logger.WithFields(logrus.Fields{
				"author":   key.Author,
				"permlink": key.Permlink,
			}).Warn("Unexpected missing content")
			fetched[i] = s.getContent(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	for i, content := range fetched {
		if len(content) == 0 || content.Author() == "" {
			continue
		}
		got := content.Key()
		if got != missing[i] {
			s.logger.WithFields(logrus.Fields{
				"requested": missing[i].String(),
				"fetched":   got.String(),
			}).Warn("backfilled content returned a different key")
		}
		cache[got] = content
	}
}
