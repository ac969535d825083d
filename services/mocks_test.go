package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"enricher-worker/domain"
	"enricher-worker/logging"
)

// Mocks
type MockContentAPI struct {
	mock.Mock
}

func (m *MockContentAPI) GetContent(ctx context.Context, author, permlink string) (domain.Content, error) {
	args := m.Called(ctx, author, permlink)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Content), args.Error(1)
}

func (m *MockContentAPI) GetAccounts(ctx context.Context, names []string) ([]domain.Account, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockContentAPI) GetState(ctx context.Context, path string) (*domain.StateTree, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StateTree), args.Error(1)
}

func (m *MockContentAPI) GetDiscussions(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) ([]domain.Content, error) {
	args := m.Called(ctx, call, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Content), args.Error(1)
}

type MockCurationAPI struct {
	mock.Mock
}

func (m *MockCurationAPI) GetDiscussions(ctx context.Context, order string, query domain.FeedQuery) []domain.CurationRecord {
	args := m.Called(ctx, order, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.CurationRecord)
}

func (m *MockCurationAPI) GetContentData(ctx context.Context, key domain.ContentKey) domain.ScotPayload {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.ScotPayload)
}

func (m *MockCurationAPI) GetAccountData(ctx context.Context, account string) domain.ScotPayload {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.ScotPayload)
}

type MockTokenAPI struct {
	mock.Mock
}

func (m *MockTokenAPI) FindBalance(ctx context.Context, account string) map[string]any {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]any)
}

func (m *MockTokenAPI) GetAccountHistory(ctx context.Context, account string) []any {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]any)
}

const testSymbol = "SCT"

func newTestEnricher(content *MockContentAPI, curation *MockCurationAPI, token *MockTokenAPI) *EnricherService {
	return NewEnricherService(
		WithContentAPI(content),
		WithCurationAPI(curation),
		WithTokenAPI(token),
		WithTokenSymbol(testSymbol),
		WithLogger(logging.Discard()),
	)
}

// curation builds a complete curation record for author/permlink.
func curation(author, permlink string) domain.CurationRecord {
	return domain.CurationRecord{
		"authorperm":    "@" + author + "/" + permlink,
		"author":        author,
		"desc":          "body of " + permlink,
		"children":      1,
		"tags":          "life,photo",
		"pending_token": 100,
	}
}
