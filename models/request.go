package models

// ExtractRequest is the payload for POST /extract-items.
type ExtractRequest struct {
	// PlannerURL is the link to the kitchen-planner session. Required.
	PlannerURL string `json:"planner_url" binding:"required"`

	// RequestNonce is the caller's idempotency token.
	// A UUID is generated when it is absent.
	RequestNonce string `json:"request_nonce,omitempty" binding:"omitempty,max=128"`

	// Strategy overrides the deployment's parsing strategy for this request.
	// Allowed: "scoped-dom", "fulltext-regex".
	Strategy string `json:"strategy,omitempty" binding:"omitempty,oneof=scoped-dom fulltext-regex"`
}
