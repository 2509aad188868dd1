package search

import (
	"github.com/studykit/studylib-backend/internal/types"
)

// Selection is the set of independently chosen filter facets. The
// single-select facets hold the selected option's id (empty means
// unselected); Chips are the free-form multi-select tags in the order the
// user picked them.
type Selection struct {
	Difficulty string      `json:"difficulty,omitempty"`
	LevelID    string      `json:"level_id,omitempty"`
	SubjectID  string      `json:"subject_id,omitempty"`
	TopicID    string      `json:"topic_id,omitempty"`
	StreamID   string      `json:"stream_id,omitempty"`
	Chips      []types.Tag `json:"chips,omitempty"`
}

// Tags flattens the selection into one ordered tag list. Facet order is
// fixed: difficulty, level, subject, topic, stream, then chips in
// selection order. Unselected facets contribute nothing.
func (s Selection) Tags() []types.Tag {
	var tags []types.Tag
	facets := []struct {
		id     string
		source types.TagSource
	}{
		{s.Difficulty, types.TagSourceDifficulty},
		{s.LevelID, types.TagSourceLevel},
		{s.SubjectID, types.TagSourceSubject},
		{s.TopicID, types.TagSourceTopic},
		{s.StreamID, types.TagSourceStream},
	}
	for _, f := range facets {
		if f.id == "" {
			continue
		}
		tags = append(tags, types.Tag{TagID: f.id, TagSource: f.source})
	}
	return append(tags, s.Chips...)
}

// BuildFilterRequest assembles the search body. When nothing is selected
// the tags field stays nil so it is omitted from the wire entirely; the
// backend treats absent and empty as distinct.
func BuildFilterRequest(entityType types.EntityType, name string, s Selection) types.FilterRequest {
	return types.FilterRequest{
		Type: string(entityType),
		Name: name,
		Tags: s.Tags(),
	}
}
