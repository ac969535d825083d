package domain

import (
	"regexp"
	"strings"
)

var postKeyPattern = regexp.MustCompile(`[a-z0-9.-]+/.*?`)

// ContentKey identifies a post. Its text form is "author/permlink".
type ContentKey struct {
	Author   string
	Permlink string

	// bare marks keys decoded from text without a "/" separator.
	bare bool
}

func NewContentKey(author, permlink string) ContentKey {
	return ContentKey{Author: author, Permlink: permlink}
}

// ParseContentKey accepts both "author/permlink" and the curation form "@author/permlink".
func ParseContentKey(s string) (ContentKey, bool) {
	s = strings.TrimPrefix(s, "@")
	author, permlink, ok := strings.Cut(s, "/")
	if !ok || author == "" {
		return ContentKey{}, false
	}
	return ContentKey{Author: author, Permlink: permlink}, true
}

func (k ContentKey) String() string {
	if k.bare {
		return k.Author
	}
	return k.Author + "/" + k.Permlink
}

// AuthorPerm is the "@author/permlink" form used by the curation API.
func (k ContentKey) AuthorPerm() string {
	return "@" + k.String()
}

// IsPost reports whether the key looks like a post reference. State trees
// also carry non-post entries in their content map.
func (k ContentKey) IsPost() bool {
	return !k.bare && postKeyPattern.MatchString(k.String())
}

func (k ContentKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ContentKey) UnmarshalText(text []byte) error {
	s := string(text)
	author, permlink, ok := strings.Cut(s, "/")
	if !ok {
		*k = ContentKey{Author: s, bare: true}
		return nil
	}
	*k = ContentKey{Author: author, Permlink: permlink}
	return nil
}

// Content is a post object. Fields are passed through verbatim from whichever
// source produced them; only a handful are read or derived here.
type Content map[string]any

func (c Content) Author() string {
	return stringField(c, "author")
}

func (c Content) Permlink() string {
	return stringField(c, "permlink")
}

func (c Content) Key() ContentKey {
	return NewContentKey(c.Author(), c.Permlink())
}

// Overlay copies every field of src onto c, replacing existing values.
func (c Content) Overlay(src map[string]any) {
	for k, v := range src {
		c[k] = v
	}
}

// SetScotData attaches the curation payload keyed by token symbol.
func (c Content) SetScotData(payload ScotPayload) {
	c[FieldScotData] = map[string]any(payload)
}

// ScotData returns the attached curation payload, if any.
func (c Content) ScotData() (ScotPayload, bool) {
	obj, ok := asObject(c[FieldScotData])
	if !ok {
		return nil, false
	}
	return ScotPayload(obj), true
}

// HasToken reports whether the attached curation payload carries data for symbol.
func (c Content) HasToken(symbol string) bool {
	payload, ok := c.ScotData()
	if !ok {
		return false
	}
	_, ok = payload.Token(symbol)
	return ok
}

// ScotPayload is the curation API's per-post response: token symbol to record.
type ScotPayload map[string]any

func (p ScotPayload) Token(symbol string) (CurationRecord, bool) {
	obj, ok := asObject(p[symbol])
	if !ok {
		return nil, false
	}
	return CurationRecord(obj), true
}

// CurationRecord is one post as reported by the curation API for a single token.
type CurationRecord map[string]any

func (r CurationRecord) AuthorPerm() string {
	return stringField(r, "authorperm")
}

func (r CurationRecord) Key() (ContentKey, bool) {
	return ParseContentKey(r.AuthorPerm())
}

// Author prefers the record's own author field and falls back to authorperm.
func (r CurationRecord) Author() string {
	if a := stringField(r, "author"); a != "" {
		return a
	}
	k, _ := r.Key()
	return k.Author
}

func (r CurationRecord) Desc() (string, bool) {
	v, ok := r["desc"]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (r CurationRecord) HasChildren() bool {
	v, ok := r["children"]
	return ok && v != nil
}

// Incomplete reports whether body or reply count must come from the primary API.
func (r CurationRecord) Incomplete() bool {
	_, hasDesc := r.Desc()
	return !hasDesc || !r.HasChildren()
}

// Category is the first entry of the comma separated tag list.
func (r CurationRecord) Category() string {
	tags := stringField(r, "tags")
	category, _, _ := strings.Cut(tags, ",")
	return category
}

// Draft synthesizes a post from curation fields alone. replies is always
// empty: the curation API does not carry the reply tree.
func (r CurationRecord) Draft() Content {
	body, _ := r.Desc()
	key, _ := r.Key()
	return Content{
		"body":        body,
		"body_length": len(body),
		"permlink":    key.Permlink,
		"category":    r.Category(),
		"children":    r["children"],
		"replies":     []any{},
	}
}

// Account is an account view from the hydrated state.
type Account map[string]any

func (a Account) SetTokenBalances(v any) { a[FieldTokenBalances] = v }

func (a Account) SetTokenStatus(v any) { a[FieldTokenStatus] = v }

func (a Account) SetTransferHistory(v []any) { a[FieldTransferHistory] = v }

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, o != nil
	case CurationRecord:
		return o, o != nil
	case Content:
		return o, o != nil
	case ScotPayload:
		return o, o != nil
	default:
		return nil, false
	}
}
