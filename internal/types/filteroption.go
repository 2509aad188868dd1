package types

// FilterOptionCatalog is the static option set that populates the filter
// UI. It is seeded from a YAML file at startup and cached.
type FilterOptionCatalog struct {
	Levels           []LevelOption       `yaml:"levels" json:"levels"`
	Difficulties     []string            `yaml:"difficulties" json:"difficulties"`
	Types            []string            `yaml:"types" json:"types"`
	Tags             []Tag               `yaml:"tags" json:"tags"`
	StreamsByLevel   map[string][]Option `yaml:"streams_by_level" json:"streams_by_level"`
	SubjectsByStream map[string][]Option `yaml:"subjects_by_stream" json:"subjects_by_stream"`
}

type LevelOption struct {
	LevelID   string `yaml:"level_id" json:"level_id"`
	LevelName string `yaml:"level_name" json:"level_name"`
}

type Option struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}
