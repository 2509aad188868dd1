package lifecycle

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/studykit/studylib-backend/internal/types"
)

// KindAdapter isolates everything that differs between the four slide
// kinds: which payload column is written, how draft content is promoted
// on publish (and restored on unpublish), and which backend route the
// kind's add-or-update goes through. The state machine itself is shared.
type KindAdapter interface {
	Kind() types.SourceType
	Endpoint() string
	ApplyDraft(s *types.Slide, raw json.RawMessage) error
	Promote(s *types.Slide) error
	Demote(s *types.Slide) error
}

var adapters = map[types.SourceType]KindAdapter{
	types.SourceDocument:   documentAdapter{},
	types.SourceVideo:      videoAdapter{},
	types.SourceQuestion:   questionAdapter{},
	types.SourceAssignment: assignmentAdapter{},
}

func AdapterFor(kind types.SourceType) (KindAdapter, error) {
	a, ok := adapters[kind]
	if !ok {
		return nil, fmt.Errorf("unknown slide kind %q", kind)
	}
	return a, nil
}

type documentAdapter struct{}

func (documentAdapter) Kind() types.SourceType { return types.SourceDocument }
func (documentAdapter) Endpoint() string       { return "add-update-document-slide" }

func (documentAdapter) ApplyDraft(s *types.Slide, raw json.RawMessage) error {
	var data types.DocumentSlideData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode document payload: %w", err)
	}
	// Draft edits never touch the published copy.
	if len(s.Document) > 0 {
		var prev types.DocumentSlideData
		if err := json.Unmarshal(s.Document, &prev); err == nil {
			data.PublishedData = prev.PublishedData
			data.PublishedDocumentTotalPages = prev.PublishedDocumentTotalPages
		}
	}
	return marshalInto(&s.Document, data)
}

// Promote makes the draft the published copy and clears the draft field;
// the draft is superseded until the next edit.
func (documentAdapter) Promote(s *types.Slide) error {
	var data types.DocumentSlideData
	if err := json.Unmarshal(s.Document, &data); err != nil {
		return fmt.Errorf("decode document payload: %w", err)
	}
	if data.Data != "" {
		data.PublishedData = data.Data
		data.PublishedDocumentTotalPages = data.TotalPages
		data.Data = ""
	}
	return marshalInto(&s.Document, data)
}

// Demote restores the published copy as the editable draft and clears the
// published reference.
func (documentAdapter) Demote(s *types.Slide) error {
	var data types.DocumentSlideData
	if err := json.Unmarshal(s.Document, &data); err != nil {
		return fmt.Errorf("decode document payload: %w", err)
	}
	if data.Data == "" {
		data.Data = data.PublishedData
		data.TotalPages = data.PublishedDocumentTotalPages
	}
	data.PublishedData = ""
	data.PublishedDocumentTotalPages = 0
	return marshalInto(&s.Document, data)
}

type videoAdapter struct{}

func (videoAdapter) Kind() types.SourceType { return types.SourceVideo }
func (videoAdapter) Endpoint() string       { return "add-update-video-slide" }

func (videoAdapter) ApplyDraft(s *types.Slide, raw json.RawMessage) error {
	var data types.VideoSlideData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode video payload: %w", err)
	}
	if len(s.Video) > 0 {
		var prev types.VideoSlideData
		if err := json.Unmarshal(s.Video, &prev); err == nil {
			data.PublishedURL = prev.PublishedURL
		}
	}
	return marshalInto(&s.Video, data)
}

func (videoAdapter) Promote(s *types.Slide) error {
	var data types.VideoSlideData
	if err := json.Unmarshal(s.Video, &data); err != nil {
		return fmt.Errorf("decode video payload: %w", err)
	}
	data.PublishedURL = data.URL
	return marshalInto(&s.Video, data)
}

func (videoAdapter) Demote(s *types.Slide) error {
	var data types.VideoSlideData
	if err := json.Unmarshal(s.Video, &data); err != nil {
		return fmt.Errorf("decode video payload: %w", err)
	}
	if data.URL == "" {
		data.URL = data.PublishedURL
	}
	data.PublishedURL = ""
	return marshalInto(&s.Video, data)
}

// Question and assignment slides have no draft/published payload split;
// visibility is governed by status alone.

type questionAdapter struct{}

func (questionAdapter) Kind() types.SourceType { return types.SourceQuestion }
func (questionAdapter) Endpoint() string       { return "add-update-slide" }

func (questionAdapter) ApplyDraft(s *types.Slide, raw json.RawMessage) error {
	var data types.QuestionSlideData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode question payload: %w", err)
	}
	return marshalInto(&s.Question, data)
}

func (questionAdapter) Promote(*types.Slide) error { return nil }
func (questionAdapter) Demote(*types.Slide) error  { return nil }

type assignmentAdapter struct{}

func (assignmentAdapter) Kind() types.SourceType { return types.SourceAssignment }
func (assignmentAdapter) Endpoint() string       { return "add-update-slide" }

func (assignmentAdapter) ApplyDraft(s *types.Slide, raw json.RawMessage) error {
	var data types.AssignmentSlideData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode assignment payload: %w", err)
	}
	return marshalInto(&s.Assignment, data)
}

func (assignmentAdapter) Promote(*types.Slide) error { return nil }
func (assignmentAdapter) Demote(*types.Slide) error  { return nil }

func marshalInto(dst *datatypes.JSON, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dst = datatypes.JSON(raw)
	return nil
}
