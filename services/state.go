package services

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"enricher-worker/domain"
)

var (
	feedRoute      = regexp.MustCompile(`^/?(trending|hot|created|promoted)($|/$|/([^/]+)/?$)`)
	transfersRoute = regexp.MustCompile(`^/?@([^/]+)/transfers/?$`)
)

// GetState hydrates the page state for url from the primary API, enriches it
// and runs it through the state cleaner.
func (s *EnricherService) GetState(ctx context.Context, url string) (*domain.StateTree, error) {
	path, _, _ := strings.Cut(url, "?")

	state, err := s.contentAPI.GetState(ctx, path)
	if err != nil {
		return nil, err
	}
	s.AttachScotData(ctx, path, state)
	return s.cleaner(state), nil
}

// AttachScotData enriches state in place using the first strategy whose
// route pattern matches: tag feed, account transfers, or a sweep over every
// post already in the state.
func (s *EnricherService) AttachScotData(ctx context.Context, route string, state *domain.StateTree) {
	log := s.logger.WithField("route", route)

	if m := feedRoute.FindStringSubmatch(route); m != nil {
		log.Debug("attaching curation feed")
		s.attachFeed(ctx, m[1], m[3], state)
		return
	}

	if m := transfersRoute.FindStringSubmatch(route); m != nil {
		log.Debug("attaching token transfers")
		s.attachTransfers(ctx, m[1], state)
		return
	}

	if len(state.Content) > 0 {
		log.Debug("sweeping state content")
		s.sweepContent(ctx, state)
	}
}

// attachFeed replaces state.Content with the curation feed for feedType/tag.
// The discussion index is only updated when the tag bucket already exists.
func (s *EnricherService) attachFeed(ctx context.Context, feedType, tag string, state *domain.StateTree) {
	records := s.curationAPI.GetDiscussions(ctx, feedType, domain.FeedQuery{
		Tag:   tag,
		Limit: domain.StateFeedLimit,
	})

	if state.Content == nil {
		state.Content = make(map[domain.ContentKey]domain.Content)
	}
	s.backfillMissing(ctx, records, state.Content)

	if state.DiscussionIdx == nil {
		state.DiscussionIdx = make(map[string]domain.DiscussionIndex)
	}

	reps := s.resolveReputations(ctx, curationAuthors(records))
	content := make(map[domain.ContentKey]domain.Content, len(records))
	keys := make([]domain.ContentKey, 0, len(records))
	for _, rec := range records {
		key, ok := rec.Key()
		if !ok {
			s.logger.WithField("authorperm", rec.AuthorPerm()).Warn("skipping curation record without a valid authorperm")
			continue
		}

		post := state.Content[key]
		if post == nil {
			post = rec.Draft()
			if rep, ok := reps[rec.Author()]; ok {
				post[domain.FieldAuthorReputation] = rep
			}
		}
		post.Overlay(rec)
		post.SetScotData(s.tokenPayload(rec))

		content[key] = post
		keys = append(keys, key)
	}
	state.Content = content

	if idx := state.DiscussionIdx[tag]; idx != nil {
		idx.SetFeed(feedType, keys)
	}
}

// attachTransfers adds token balance, token status and transfer history to
// the account view. Each piece is written only when it was found.
func (s *EnricherService) attachTransfers(ctx context.Context, account string, state *domain.StateTree) {
	var (
		balance map[string]any
		status  domain.ScotPayload
		history []any
	)
	var g errgroup.Group
	g.Go(func() error {
		balance = s.tokenAPI.FindBalance(ctx, account)
		return nil
	})
	g.Go(func() error {
		status = s.curationAPI.GetAccountData(ctx, account)
		return nil
	})
	g.Go(func() error {
		history = s.tokenAPI.GetAccountHistory(ctx, account)
		return nil
	})
	_ = g.Wait()

	tokenStatus, hasStatus := status.Token(s.symbol)
	if balance == nil && !hasStatus && history == nil {
		return
	}

	if state.Accounts == nil {
		state.Accounts = make(map[string]domain.Account)
	}
	view := state.Accounts[account]
	if view == nil {
		view = domain.Account{}
		state.Accounts[account] = view
	}

	if balance != nil {
		view.SetTokenBalances(balance)
	}
	if hasStatus {
		view.SetTokenStatus(map[string]any(tokenStatus))
	}
	if history != nil {
		reversed := slices.Clone(history)
		slices.Reverse(reversed)
		view.SetTransferHistory(reversed)
	}
}

// sweepContent attaches curation data to every post in state.Content and
// then drops the posts that have none for the active token.
func (s *EnricherService) sweepContent(ctx context.Context, state *domain.StateTree) {
	var keys []domain.ContentKey
	for key, post := range state.Content {
		if key.IsPost() && post != nil {
			keys = append(keys, key)
		}
	}

	payloads := make([]domain.ScotPayload, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			payloads[i] = s.curationAPI.GetContentData(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	for i, key := range keys {
		post := state.Content[key]
		if rec, ok := payloads[i].Token(s.symbol); ok {
			post.Overlay(rec)
		}
		post.SetScotData(payloads[i])
	}

	filtered := make(map[domain.ContentKey]domain.Content, len(state.Content))
	for key, post := range state.Content {
		if post.HasToken(s.symbol) {
			filtered[key] = post
		}
	}

	if dropped := len(state.Content) - len(filtered); dropped > 0 {
		s.logger.WithFields(logrus.Fields{
			"kept":    len(filtered),
			"dropped": dropped,
		}).Debug("dropped content without curation data")
	}
	state.Content = filtered
}
