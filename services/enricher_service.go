package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"enricher-worker/domain"
)

// Consumer-side interfaces
type ContentAPI interface {
	GetContent(ctx context.Context, author, permlink string) (domain.Content, error)
	GetAccounts(ctx context.Context, names []string) ([]domain.Account, error)
	GetState(ctx context.Context, path string) (*domain.StateTree, error)
	GetDiscussions(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) ([]domain.Content, error)
}

type CurationAPI interface {
	GetDiscussions(ctx context.Context, order string, query domain.FeedQuery) []domain.CurationRecord
	GetContentData(ctx context.Context, key domain.ContentKey) domain.ScotPayload
	GetAccountData(ctx context.Context, account string) domain.ScotPayload
}

type TokenAPI interface {
	FindBalance(ctx context.Context, account string) map[string]any
	GetAccountHistory(ctx context.Context, account string) []any
}

// StateCleaner is applied to a hydrated, enriched state before it is returned.
type StateCleaner func(*domain.StateTree) *domain.StateTree

// EnricherService merges curation data into content from the primary API.
// It holds no per-call state and is safe for concurrent use; a StateTree
// passed to AttachScotData is owned by the call until it returns.
type EnricherService struct {
	contentAPI  ContentAPI
	curationAPI CurationAPI
	tokenAPI    TokenAPI
	symbol      string
	cleaner     StateCleaner
	logger      *logrus.Logger
}

// Functional Options Pattern
type EnricherOption func(*EnricherService)

func WithContentAPI(c ContentAPI) EnricherOption {
	return func(s *EnricherService) { s.contentAPI = c }
}

func WithCurationAPI(c CurationAPI) EnricherOption {
	return func(s *EnricherService) { s.curationAPI = c }
}

func WithTokenAPI(c TokenAPI) EnricherOption {
	return func(s *EnricherService) { s.tokenAPI = c }
}

func WithTokenSymbol(symbol string) EnricherOption {
	return func(s *EnricherService) { s.symbol = symbol }
}

func WithStateCleaner(c StateCleaner) EnricherOption {
	return func(s *EnricherService) { s.cleaner = c }
}

func WithLogger(l *logrus.Logger) EnricherOption {
	return func(s *EnricherService) { s.logger = l }
}

func NewEnricherService(opts ...EnricherOption) *EnricherService {
	s := &EnricherService{
		cleaner: func(t *domain.StateTree) *domain.StateTree { return t },
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getContent degrades a failed primary lookup to nil.
func (s *EnricherService) getContent(ctx context.Context, key domain.ContentKey) domain.Content {
	content, err := s.contentAPI.GetContent(ctx, key.Author, key.Permlink)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"author":   key.Author,
			"permlink": key.Permlink,
		}).Error("failed to fetch content")
		return nil
	}
	return content
}

// tokenPayload wraps a single curation record as a scotData payload.
func (s *EnricherService) tokenPayload(rec domain.CurationRecord) domain.ScotPayload {
	return domain.ScotPayload{s.symbol: map[string]any(rec)}
}
