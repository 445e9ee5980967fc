package models

import "encoding/json"

// ExtractionResult is the response for POST /extract-items.
// It is built once per call and never mutated afterwards.
type ExtractionResult struct {
	// Success indicates whether the extraction completed without errors.
	Success bool `json:"success"`

	// ExtractVersion names the parsing strategy that produced the result.
	ExtractVersion string `json:"extract_version"`

	// ExtractionHash is a 12-hex-char digest binding items, planner, nonce and time.
	// Empty on failure.
	ExtractionHash string `json:"extraction_hash,omitempty"`

	// ExtractedAt is the capture time in RFC 3339 UTC with millisecond precision.
	ExtractedAt string `json:"extracted_at"`

	PlannerID    string `json:"planner_id,omitempty"`
	PlannerURL   string `json:"planner_url"`
	RequestNonce string `json:"request_nonce"`

	// Items is always present on success, as [] when nothing matched, and
	// omitted on failure. See MarshalJSON.
	Items []Item `json:"items"`

	// SourceContext describes how the content was located.
	SourceContext SourceContext `json:"source_context"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// SourceContext records how the browser session found the item content.
type SourceContext struct {
	Mode         LocateMode `json:"mode,omitempty"`
	WaitUntil    WaitUntil  `json:"wait_until,omitempty"`
	ModalFound   bool       `json:"modal_found"`
	RowsFound    int        `json:"rows_found"`
	RowsSkipped  int        `json:"rows_skipped"`
	TextLength   int        `json:"text_length"`
	MarkupLength int        `json:"markup_length"`

	// NavigationMs is the time spent loading the planner page.
	NavigationMs int64 `json:"navigation_ms"`

	// LocateMs is the time spent discovering item content.
	LocateMs int64 `json:"locate_ms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status         string `json:"status"` // "healthy" or "degraded"
	Version        string `json:"version"`
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	MaxSessions    int    `json:"max_sessions"`
}

// NewFailure builds a failure envelope for errors raised outside the
// extraction pipeline, such as authentication or admission rejections.
func NewFailure(code, message string) *ExtractionResult {
	return &ExtractionResult{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message},
	}
}

// envelope has ExtractionResult's fields without its MarshalJSON method.
type envelope ExtractionResult

// MarshalJSON writes items as an array on success, [] when empty, and leaves
// the key out of failure envelopes.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			envelope
			Items []Item `json:"items,omitempty"`
		}{envelope: envelope(r)})
	}

	items := r.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(struct {
		envelope
		Items []Item `json:"items"`
	}{envelope: envelope(r), Items: items})
}
