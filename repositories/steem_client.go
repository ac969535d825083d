package repositories

import (
	"context"
	"fmt"
	"net/http"

	"enricher-worker/domain"
)

// SteemClient talks to the primary content API over condenser_api JSON-RPC.
type SteemClient struct {
	rpc *rpcClient
}

func NewSteemClient(client *http.Client, url string) *SteemClient {
	return &SteemClient{rpc: newRPCClient(client, url)}
}

func (c *SteemClient) GetContent(ctx context.Context, author, permlink string) (domain.Content, error) {
	var content domain.Content
	err := c.rpc.call(ctx, "condenser_api.get_content", []any{author, permlink}, &content)
	recordFetch("steem", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get content %s/%s: %w", author, permlink, err)
	}
	return content, nil
}

func (c *SteemClient) GetAccounts(ctx context.Context, names []string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := c.rpc.call(ctx, "condenser_api.get_accounts", []any{names}, &accounts)
	recordFetch("steem", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get %d accounts: %w", len(names), err)
	}
	return accounts, nil
}

func (c *SteemClient) GetState(ctx context.Context, path string) (*domain.StateTree, error) {
	state := &domain.StateTree{}
	err := c.rpc.call(ctx, "condenser_api.get_state", []any{path}, state)
	recordFetch("steem", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get state for %s: %w", path, err)
	}
	return state, nil
}

// GetDiscussions runs one of the enumerated discussion listings.
func (c *SteemClient) GetDiscussions(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) ([]domain.Content, error) {
	var posts []domain.Content
	err := c.rpc.call(ctx, "condenser_api."+string(call), []any{query}, &posts)
	recordFetch("steem", err)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", call, err)
	}
	return posts, nil
}
