package repositories

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"enricher-worker/domain"
)

// EngineRepository reads token balances and transfer history from the
// sidechain node and its history API.
type EngineRepository struct {
	rpc     *rpcClient
	fetcher JSONFetcher
	apiURL  string
	symbol  string
	logger  *logrus.Logger
	now     func() time.Time
}

func NewEngineRepository(client *http.Client, rpcURL, apiURL, symbol string, fetcher JSONFetcher, logger *logrus.Logger) *EngineRepository {
	return &EngineRepository{
		rpc:     newRPCClient(client, rpcURL+"/contracts"),
		fetcher: fetcher,
		apiURL:  apiURL,
		symbol:  symbol,
		logger:  logger,
		now:     time.Now,
	}
}

type findOneParams struct {
	Contract string            `json:"contract"`
	Table    string            `json:"table"`
	Query    map[string]string `json:"query"`
}

// FindBalance returns the account's balance document, or nil when the
// account holds none or the lookup failed.
func (r *EngineRepository) FindBalance(ctx context.Context, account string) map[string]any {
	var balance map[string]any
	err := r.rpc.call(ctx, "findOne", findOneParams{
		Contract: "tokens",
		Table:    "balances",
		Query:    map[string]string{"account": account, "symbol": r.symbol},
	}, &balance)
	recordFetch("engine", err)
	if err != nil {
		r.logger.WithError(err).WithField("account", account).Error("Could not fetch token balance")
		return nil
	}
	return balance
}

// GetAccountHistory returns the newest transfers first as the API orders
// them, or nil when the response is not a list.
func (r *EngineRepository) GetAccountHistory(ctx context.Context, account string) []any {
	body := r.fetcher.FetchJSON(ctx, r.apiURL+"/accounts/history", map[string]string{
		"account": account,
		"limit":   strconv.Itoa(domain.TransferHistoryLimit),
		"offset":  "0",
		"type":    "user",
		"symbol":  r.symbol,
		"v":       strconv.FormatInt(r.now().UnixMilli(), 10),
	})

	var history []any
	if err := domain.DecodeJSON(body, &history); err != nil {
		return nil
	}
	return history
}
