package search

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/studykit/studylib-backend/internal/types"
)

func TestEmptySelectionOmitsTagsField(t *testing.T) {
	req := BuildFilterRequest(types.EntityQuestionPaper, "", Selection{})

	if req.Tags != nil {
		t.Fatalf("empty selection should produce nil tags, got %v", req.Tags)
	}

	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), `"tags"`) {
		t.Fatalf("tags key must be absent from the wire, got %s", raw)
	}
	if !strings.Contains(string(raw), `"type":"QUESTION_PAPER"`) {
		t.Fatalf("type missing from request: %s", raw)
	}
}

func TestFacetOrderingIsFixed(t *testing.T) {
	sel := Selection{
		LevelID:   "L1",
		SubjectID: "S1",
		Chips:     []types.Tag{{TagID: "C1", TagSource: types.TagSourceTopic}},
	}

	got := sel.Tags()
	want := []types.Tag{
		{TagID: "L1", TagSource: types.TagSourceLevel},
		{TagID: "S1", TagSource: types.TagSourceSubject},
		{TagID: "C1", TagSource: types.TagSourceTopic},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tags, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tag[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAllFacetsAndChipOrder(t *testing.T) {
	sel := Selection{
		Difficulty: "HARD",
		LevelID:    "L1",
		SubjectID:  "S1",
		TopicID:    "T1",
		StreamID:   "ST1",
		Chips: []types.Tag{
			{TagID: "chip-b", TagSource: types.TagSourceTopic},
			{TagID: "chip-a", TagSource: types.TagSourceTopic},
		},
	}

	got := sel.Tags()
	wantSources := []types.TagSource{
		types.TagSourceDifficulty,
		types.TagSourceLevel,
		types.TagSourceSubject,
		types.TagSourceTopic,
		types.TagSourceStream,
	}
	for i, src := range wantSources {
		if got[i].TagSource != src {
			t.Fatalf("facet %d has source %s, want %s", i, got[i].TagSource, src)
		}
	}
	// Chips stay in selection order, not sorted.
	if got[5].TagID != "chip-b" || got[6].TagID != "chip-a" {
		t.Fatalf("chips reordered: %v", got[5:])
	}
}

func TestSelectionBindsSnakeCase(t *testing.T) {
	body := `{
		"difficulty": "HARD",
		"level_id": "L1",
		"subject_id": "S1",
		"topic_id": "T1",
		"stream_id": "ST1",
		"chips": [{"tagId": "c1", "tagSource": "TOPIC"}]
	}`

	var sel Selection
	if err := json.Unmarshal([]byte(body), &sel); err != nil {
		t.Fatal(err)
	}
	if sel.Difficulty != "HARD" || sel.LevelID != "L1" || sel.SubjectID != "S1" ||
		sel.TopicID != "T1" || sel.StreamID != "ST1" {
		t.Fatalf("snake_case keys did not bind: %+v", sel)
	}
	if len(sel.Chips) != 1 || sel.Chips[0].TagID != "c1" || sel.Chips[0].TagSource != types.TagSourceTopic {
		t.Fatalf("chips did not bind: %+v", sel.Chips)
	}
}

func TestUnselectedFacetsContributeNothing(t *testing.T) {
	cases := []struct {
		name string
		sel  Selection
		want int
	}{
		{name: "only_difficulty", sel: Selection{Difficulty: "EASY"}, want: 1},
		{name: "only_chips", sel: Selection{Chips: []types.Tag{{TagID: "c", TagSource: types.TagSourceTopic}}}, want: 1},
		{name: "level_and_stream", sel: Selection{LevelID: "L", StreamID: "S"}, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(tc.sel.Tags()); got != tc.want {
				t.Fatalf("got %d tags, want %d", got, tc.want)
			}
		})
	}
}
