package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StateTree is the hydrated page state returned by the primary API. Only the
// sections touched by enrichment are typed; everything else is kept verbatim.
type StateTree struct {
	Content       map[ContentKey]Content
	Accounts      map[string]Account
	DiscussionIdx map[string]DiscussionIndex
	Extra         map[string]json.RawMessage
}

// DiscussionIndex maps a feed type ("trending", "hot", ...) to ordered post keys.
// It may also hold unrelated fields such as "category".
type DiscussionIndex map[string]any

// SetFeed records the ordered keys of one feed.
func (d DiscussionIndex) SetFeed(feedType string, keys []ContentKey) {
	list := make([]any, 0, len(keys))
	for _, k := range keys {
		list = append(list, k.String())
	}
	d[feedType] = list
}

// Feed returns the ordered keys recorded for a feed type.
func (d DiscussionIndex) Feed(feedType string) []string {
	raw, _ := d[feedType].([]any)
	keys := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func (t *StateTree) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}

	*t = StateTree{}
	if raw, ok := fields["content"]; ok {
		if err := decodeNumbers(raw, &t.Content); err != nil {
			return fmt.Errorf("failed to decode state content: %w", err)
		}
		delete(fields, "content")
	}
	if raw, ok := fields["accounts"]; ok {
		if err := decodeNumbers(raw, &t.Accounts); err != nil {
			return fmt.Errorf("failed to decode state accounts: %w", err)
		}
		delete(fields, "accounts")
	}
	if raw, ok := fields["discussion_idx"]; ok {
		if err := decodeNumbers(raw, &t.DiscussionIdx); err != nil {
			return fmt.Errorf("failed to decode state discussion_idx: %w", err)
		}
		delete(fields, "discussion_idx")
	}
	t.Extra = fields
	return nil
}

func (t StateTree) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+3)
	for k, v := range t.Extra {
		out[k] = v
	}
	if t.Content != nil {
		out["content"] = t.Content
	}
	if t.Accounts != nil {
		out["accounts"] = t.Accounts
	}
	if t.DiscussionIdx != nil {
		out["discussion_idx"] = t.DiscussionIdx
	}
	return json.Marshal(out)
}

// DecodeJSON decodes with json.Number so reputations and counters survive
// the round trip without float rounding.
func DecodeJSON(data []byte, v any) error {
	return decodeNumbers(data, v)
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
