package pipeline

import (
	"strings"

	"topic-pulse/internal/config"
)

// Topic is one entry of the topic table.
type Topic struct {
	Name        string   `json:"name"`
	Sources     []string `json:"sources"`
	Description string   `json:"description,omitempty"`
}

// TopicTable maps topics to sources. It is built once and never mutated;
// accessors return copies.
type TopicTable struct {
	byName map[string]Topic
	order  []string
}

// NewTopicTable copies the configured topics into an immutable table. Later
// duplicates of a name are ignored.
func NewTopicTable(topics []config.TopicConfig) TopicTable {
	t := TopicTable{byName: make(map[string]Topic, len(topics))}
	for _, tc := range topics {
		name := strings.TrimSpace(tc.Name)
		if name == "" {
			continue
		}
		if _, dup := t.byName[name]; dup {
			continue
		}
		t.byName[name] = Topic{
			Name:        name,
			Sources:     append([]string(nil), tc.Sources...),
			Description: tc.Description,
		}
		t.order = append(t.order, name)
	}
	return t
}

// Resolve returns the sources for topic. An unmapped topic, or one without
// sources, is its own sole source.
func (t TopicTable) Resolve(topic string) []string {
	topic = strings.TrimSpace(topic)
	if e, ok := t.byName[topic]; ok && len(e.Sources) > 0 {
		return append([]string(nil), e.Sources...)
	}
	if topic == "" {
		return nil
	}
	return []string{topic}
}

// Topics lists the table in configuration order.
func (t TopicTable) Topics() []Topic {
	out := make([]Topic, 0, len(t.order))
	for _, name := range t.order {
		e := t.byName[name]
		e.Sources = append([]string(nil), e.Sources...)
		out = append(out, e)
	}
	return out
}
