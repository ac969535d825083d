package domain

import "encoding/json"

// EnrichRequest represents one enrichment job received from the input queue
type EnrichRequest struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"` // "state" | "feed" | "content"
	Route    string    `json:"route,omitempty"`
	Call     FeedCall  `json:"call,omitempty"`
	Query    FeedQuery `json:"query,omitempty"`
	Author   string    `json:"author,omitempty"`
	Permlink string    `json:"permlink,omitempty"`
}

// EnrichResult is published to the output queue once a job is done
type EnrichResult struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Status  string          `json:"status"`
	State   json.RawMessage `json:"state,omitempty"`
	Feed    *FeedResult     `json:"feed,omitempty"`
	Content Content         `json:"content,omitempty"`
	Error   string          `json:"error,omitempty"`
}
