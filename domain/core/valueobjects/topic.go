package valueobjects

// TopicItemKind distinguishes informational items from action items
type TopicItemKind string

const (
	ItemKindInfo   TopicItemKind = "info"
	ItemKindAction TopicItemKind = "action"
)

// TopicItem is a single entry discussed under a topic
type TopicItem struct {
	ID      string        `json:"id"`
	Kind    TopicItemKind `json:"kind"`
	Subject string        `json:"subject"`
	// IsOpen only applies to action items; info items are always closed
	IsOpen bool `json:"isOpen"`
	IsNew  bool `json:"isNew"`
}

// Topic groups the items discussed under one agenda point
type Topic struct {
	ID          string      `json:"id"`
	Subject     string      `json:"subject"`
	IsOpen      bool        `json:"isOpen"`
	IsNew       bool        `json:"isNew"`
	IsRecurring bool        `json:"isRecurring"`
	Items       []TopicItem `json:"items"`
}

// CloneTopics deep-copies a topic list so entity snapshots never alias
func CloneTopics(topics []Topic) []Topic {
	if topics == nil {
		return nil
	}
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = t
		if t.Items != nil {
			out[i].Items = make([]TopicItem, len(t.Items))
			copy(out[i].Items, t.Items)
		}
	}
	return out
}

// OpenTopicsOf filters a topic list down to the open ones
func OpenTopicsOf(topics []Topic) []Topic {
	var open []Topic
	for _, t := range topics {
		if t.IsOpen {
			open = append(open, t)
		}
	}
	return CloneTopics(open)
}

// MarkSeen clears the IsNew flags on a topic list, returning a copy.
// Topics carried over into a new minutes start as already-seen ones.
func MarkSeen(topics []Topic) []Topic {
	out := CloneTopics(topics)
	for i := range out {
		out[i].IsNew = false
		for j := range out[i].Items {
			out[i].Items[j].IsNew = false
		}
	}
	return out
}
