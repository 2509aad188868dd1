package lifecycle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/studykit/studylib-backend/internal/types"
)

func TestNextTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    types.Status
		action  Action
		opts    Options
		want    types.Status
		wantErr error
	}{
		{name: "save_draft_keeps_draft", from: types.StatusDraft, action: ActionSaveDraft, want: types.StatusDraft},
		{name: "save_draft_keeps_unsync", from: types.StatusUnsync, action: ActionSaveDraft, want: types.StatusUnsync},
		{name: "save_draft_on_published_goes_unsync", from: types.StatusPublished, action: ActionSaveDraft, want: types.StatusUnsync},
		{name: "publish_from_draft", from: types.StatusDraft, action: ActionPublish, want: types.StatusPublished},
		{name: "publish_from_unsync", from: types.StatusUnsync, action: ActionPublish, want: types.StatusPublished},
		{name: "republish", from: types.StatusPublished, action: ActionPublish, want: types.StatusPublished},
		{name: "unpublish_defaults_to_draft", from: types.StatusPublished, action: ActionUnpublish, want: types.StatusDraft},
		{name: "unpublish_to_unsync", from: types.StatusPublished, action: ActionUnpublish, opts: Options{UnpublishTo: types.StatusUnsync}, want: types.StatusUnsync},
		{name: "unpublish_from_draft_rejected", from: types.StatusDraft, action: ActionUnpublish, wantErr: ErrInvalidTransition},
		{name: "unpublish_to_published_rejected", from: types.StatusPublished, action: ActionUnpublish, opts: Options{UnpublishTo: types.StatusPublished}, wantErr: ErrInvalidTransition},
		{name: "delete_from_draft", from: types.StatusDraft, action: ActionDelete, want: types.StatusDeleted},
		{name: "delete_from_published", from: types.StatusPublished, action: ActionDelete, want: types.StatusDeleted},
		{name: "delete_is_idempotent", from: types.StatusDeleted, action: ActionDelete, want: types.StatusDeleted},
		{name: "publish_on_deleted_rejected", from: types.StatusDeleted, action: ActionPublish, wantErr: ErrTerminalStatus},
		{name: "save_on_deleted_rejected", from: types.StatusDeleted, action: ActionSaveDraft, wantErr: ErrTerminalStatus},
		{name: "unpublish_on_deleted_rejected", from: types.StatusDeleted, action: ActionUnpublish, wantErr: ErrTerminalStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.action, tc.opts)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Next(%s, %s) err = %v, want %v", tc.from, tc.action, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Next(%s, %s) unexpected error: %v", tc.from, tc.action, err)
			}
			if got != tc.want {
				t.Fatalf("Next(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
			}
		})
	}
}

func documentSlide(t *testing.T, data types.DocumentSlideData) *types.Slide {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return &types.Slide{
		SourceType: types.SourceDocument,
		Status:     types.StatusDraft,
		Document:   raw,
	}
}

func documentData(t *testing.T, s *types.Slide) types.DocumentSlideData {
	t.Helper()
	var data types.DocumentSlideData
	if err := json.Unmarshal(s.Document, &data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestPublishPromotesDraftDocument(t *testing.T) {
	s := documentSlide(t, types.DocumentSlideData{Type: "HTML", Data: "<p>v1</p>", TotalPages: 3})

	if err := Apply(s, ActionPublish, Options{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if s.Status != types.StatusPublished {
		t.Fatalf("status = %s, want PUBLISHED", s.Status)
	}
	data := documentData(t, s)
	if data.PublishedData != "<p>v1</p>" || data.PublishedDocumentTotalPages != 3 {
		t.Fatalf("draft was not promoted: %+v", data)
	}
	if data.Data != "" {
		t.Fatalf("draft field should be cleared after publish, got %q", data.Data)
	}
}

func TestUnpublishAfterPublishRestoresDraft(t *testing.T) {
	const draft = "<p>original draft</p>"
	s := documentSlide(t, types.DocumentSlideData{Type: "HTML", Data: draft, TotalPages: 2})

	if err := Apply(s, ActionPublish, Options{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := Apply(s, ActionUnpublish, Options{}); err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}

	if s.Status != types.StatusDraft {
		t.Fatalf("status = %s, want DRAFT", s.Status)
	}
	data := documentData(t, s)
	if data.Data != draft {
		t.Fatalf("draft content not restored: %q", data.Data)
	}
	if data.PublishedData != "" || data.PublishedDocumentTotalPages != 0 {
		t.Fatalf("published reference not cleared: %+v", data)
	}
}

func TestVideoPromoteAndDemote(t *testing.T) {
	raw, _ := json.Marshal(types.VideoSlideData{SourceType: "VIDEO", URL: "https://youtu.be/abc"})
	s := &types.Slide{SourceType: types.SourceVideo, Status: types.StatusDraft, Video: raw}

	if err := Apply(s, ActionPublish, Options{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	var data types.VideoSlideData
	if err := json.Unmarshal(s.Video, &data); err != nil {
		t.Fatal(err)
	}
	if data.PublishedURL != "https://youtu.be/abc" {
		t.Fatalf("published url = %q", data.PublishedURL)
	}

	if err := Apply(s, ActionUnpublish, Options{}); err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	data = types.VideoSlideData{}
	if err := json.Unmarshal(s.Video, &data); err != nil {
		t.Fatal(err)
	}
	if data.URL != "https://youtu.be/abc" || data.PublishedURL != "" {
		t.Fatalf("demote did not restore draft url: %+v", data)
	}
}

func TestDeletedSlideRejectsPublish(t *testing.T) {
	s := documentSlide(t, types.DocumentSlideData{Type: "HTML", Data: "<p>x</p>"})
	s.Status = types.StatusDeleted

	err := Apply(s, ActionPublish, Options{})
	if !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
	if s.Status != types.StatusDeleted {
		t.Fatalf("status mutated on rejected action: %s", s.Status)
	}
}

func TestAdapterForUnknownKind(t *testing.T) {
	if _, err := AdapterFor(types.SourceType("DIAGRAM")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	for _, kind := range []types.SourceType{types.SourceDocument, types.SourceVideo, types.SourceQuestion, types.SourceAssignment} {
		a, err := AdapterFor(kind)
		if err != nil {
			t.Fatalf("AdapterFor(%s): %v", kind, err)
		}
		if a.Kind() != kind {
			t.Fatalf("AdapterFor(%s).Kind() = %s", kind, a.Kind())
		}
		if a.Endpoint() == "" {
			t.Fatalf("AdapterFor(%s) has no endpoint", kind)
		}
	}
}

func TestQuestionAndAssignmentShareEndpoint(t *testing.T) {
	q, _ := AdapterFor(types.SourceQuestion)
	a, _ := AdapterFor(types.SourceAssignment)
	if q.Endpoint() != a.Endpoint() {
		t.Fatalf("question and assignment should share the wrapper endpoint: %s != %s", q.Endpoint(), a.Endpoint())
	}
}
