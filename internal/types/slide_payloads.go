package types

// DocumentSlideData is the document-kind payload. Data holds the draft
// working copy, PublishedData whatever end users currently see. The two
// diverge whenever a published document is edited without republishing.
type DocumentSlideData struct {
	Type                        string `json:"type"` // PDF, DOC, HTML
	Data                        string `json:"data"`
	CoverFileID                 string `json:"cover_file_id,omitempty"`
	TotalPages                  int    `json:"total_pages,omitempty"`
	PublishedData               string `json:"published_data,omitempty"`
	PublishedDocumentTotalPages int    `json:"published_document_total_pages,omitempty"`
}

type VideoSlideData struct {
	SourceType        string `json:"source_type"` // FILE_ID or VIDEO (external URL)
	URL               string `json:"url"`
	PublishedURL      string `json:"published_url,omitempty"`
	VideoLengthMillis int64  `json:"video_length_in_millis,omitempty"`
	Description       string `json:"description,omitempty"`
}

type QuestionOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	MediaID string `json:"media_id,omitempty"`
}

type QuestionSlideData struct {
	Text               string           `json:"text"`
	MediaID            string           `json:"media_id,omitempty"`
	ResponseType       string           `json:"question_response_type"` // OPTION, ONE_WORD, LONG_ANSWER
	Options            []QuestionOption `json:"options,omitempty"`
	AutoEvaluationJSON string           `json:"auto_evaluation_json,omitempty"`
	PointsPerQuestion  int              `json:"points,omitempty"`
	// For questions anchored to a timestamp inside a video slide.
	VideoTimestampMillis int64 `json:"video_timestamp_in_millis,omitempty"`
}

type AssignmentSlideData struct {
	TaskText                string `json:"task_text"`
	LiveDate                string `json:"live_date,omitempty"`
	EndDate                 string `json:"end_date,omitempty"`
	ReAttemptCount          int    `json:"re_attempt_count,omitempty"`
	CommaSeparatedMediaIDs  string `json:"comma_separated_media_ids,omitempty"`
	AdaptiveMarkingForParts bool   `json:"adaptive_marking_for_parts,omitempty"`
}
