package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// emptyObject is what callers see when a fetch fails.
var emptyObject = json.RawMessage(`{}`)

// FetchResult is the outcome of one GET. Body is always valid JSON; on
// failure it is the empty object and Err says why.
type FetchResult struct {
	Body json.RawMessage
	Err  error
}

func (r FetchResult) Failed() bool {
	return r.Err != nil
}

type JSONFetcher interface {
	Fetch(ctx context.Context, rawURL string, params map[string]string) FetchResult
	FetchJSON(ctx context.Context, rawURL string, params map[string]string) json.RawMessage
}

type HTTPJSONFetcher struct {
	client   *http.Client
	logger   *logrus.Logger
	endpoint string
}

// NewJSONFetcher builds a fetcher; endpoint labels its metrics.
func NewJSONFetcher(client *http.Client, logger *logrus.Logger, endpoint string) *HTTPJSONFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPJSONFetcher{client: client, logger: logger, endpoint: endpoint}
}

// FetchJSON never fails: transport, status and parse errors are logged and
// turned into an empty object.
func (f *HTTPJSONFetcher) FetchJSON(ctx context.Context, rawURL string, params map[string]string) json.RawMessage {
	return f.Fetch(ctx, rawURL, params).Body
}

func (f *HTTPJSONFetcher) Fetch(ctx context.Context, rawURL string, params map[string]string) FetchResult {
	body, err := f.get(ctx, rawURL, params)
	recordFetch(f.endpoint, err)
	if err != nil {
		f.logger.WithError(err).WithField("url", rawURL).Error("Could not fetch data")
		return FetchResult{Body: emptyObject, Err: err}
	}
	return FetchResult{Body: body}
}

func (f *HTTPJSONFetcher) get(ctx context.Context, rawURL string, params map[string]string) (json.RawMessage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", rawURL, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status code for URL %s: %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", rawURL, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON from %s", rawURL)
	}
	return json.RawMessage(data), nil
}
