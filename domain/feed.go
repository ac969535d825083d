package domain

import (
	"fmt"
	"strconv"
)

// FeedCall enumerates the discussion listings a feed can be fetched from.
type FeedCall string

const (
	CallDiscussionsByTrending FeedCall = "get_discussions_by_trending"
	CallDiscussionsByHot      FeedCall = "get_discussions_by_hot"
	CallDiscussionsByCreated  FeedCall = "get_discussions_by_created"
	CallDiscussionsByPromoted FeedCall = "get_discussions_by_promoted"
	CallDiscussionsByBlog     FeedCall = "get_discussions_by_blog"
	CallDiscussionsByFeed     FeedCall = "get_discussions_by_feed"
	CallDiscussionsByComments FeedCall = "get_discussions_by_comments"
)

var feedCalls = map[FeedCall]string{
	CallDiscussionsByTrending: "trending",
	CallDiscussionsByHot:      "hot",
	CallDiscussionsByCreated:  "created",
	CallDiscussionsByPromoted: "promoted",
	CallDiscussionsByBlog:     "",
	CallDiscussionsByFeed:     "",
	CallDiscussionsByComments: "",
}

func ParseFeedCall(name string) (FeedCall, error) {
	call := FeedCall(name)
	if _, ok := feedCalls[call]; !ok {
		return "", fmt.Errorf("unknown feed call %q", name)
	}
	return call, nil
}

// CurationOrder returns the curation API sort order for calls the curation
// API can serve directly.
func (c FeedCall) CurationOrder() (string, bool) {
	order := feedCalls[c]
	return order, order != ""
}

// FeedQuery is the discussion query shared by both APIs.
type FeedQuery struct {
	Tag           string `json:"tag"`
	Limit         int    `json:"limit"`
	StartAuthor   string `json:"start_author,omitempty"`
	StartPermlink string `json:"start_permlink,omitempty"`
}

// CurationParams builds the curation API query. An empty tag is left out
// entirely: the curation API treats tag= differently from no tag.
func (q FeedQuery) CurationParams(token string) map[string]string {
	params := map[string]string{
		"token": token,
		"limit": strconv.Itoa(q.Limit),
	}
	if q.Tag != "" {
		params["tag"] = q.Tag
	}
	if q.StartAuthor != "" {
		params["start_author"] = q.StartAuthor
	}
	if q.StartPermlink != "" {
		params["start_permlink"] = q.StartPermlink
	}
	return params
}

// FeedResult is one page of enriched posts. EndOfData and LastValue describe
// the page as fetched, before any filtering.
type FeedResult struct {
	FeedData  []Content `json:"feedData"`
	EndOfData bool      `json:"endOfData"`
	LastValue Content   `json:"lastValue"`
}
