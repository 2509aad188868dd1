package types

// TagSource identifies which facet a tag came from.
type TagSource string

const (
	TagSourceDifficulty TagSource = "DIFFICULTY"
	TagSourceLevel      TagSource = "LEVEL"
	TagSourceSubject    TagSource = "SUBJECT"
	TagSourceTopic      TagSource = "TOPIC"
	TagSourceStream     TagSource = "STREAM"
)

type Tag struct {
	TagID     string    `yaml:"tagId" json:"tagId"`
	TagSource TagSource `yaml:"tagSource" json:"tagSource"`
}

// FilterRequest is the body of a filtered entity search. Tags is omitted
// from the wire entirely when no facet is selected; the backend contract
// distinguishes an absent tags field from an empty array.
type FilterRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Tags []Tag  `json:"tags,omitempty"`
}
