package types

import "encoding/json"

// AssistantRequest is the body of POST /assistant.
type AssistantRequest struct {
	// Free-form user message to classify and answer.
	// example: review my resume please
	Message string `json:"message"`
	// Optional conversational context passed through to the composer.
	Context map[string]any `json:"context,omitempty"`
	// Optional explicit adapter name; skips intent classification.
	// example: resume_eval
	Adapter string `json:"adapter,omitempty"`
	// Structured resume JSON (name, email, skills, education, experience).
	Resume json.RawMessage `json:"resume_json,omitempty"`
	// Array of job-offer records.
	JobOffers json.RawMessage `json:"job_offers_json,omitempty"`
}

// ToRequest converts the wire request into the orchestrator's input.
func (r AssistantRequest) ToRequest() Request {
	return Request{
		Message:   r.Message,
		Context:   r.Context,
		Adapter:   r.Adapter,
		Resume:    r.Resume,
		JobOffers: r.JobOffers,
	}
}

// RunRequest is the body of POST /run/{adapter_name}.
type RunRequest struct {
	// Message for dialog-style adapters.
	// example: tell me about the role
	Message string `json:"message,omitempty"`
	// Structured resume JSON for resume-driven adapters.
	Resume json.RawMessage `json:"resume_json,omitempty"`
	// Array of job-offer records for matching adapters.
	JobOffers json.RawMessage `json:"job_offers_json,omitempty"`
}

// ToRequest converts the wire request into the orchestrator's input.
func (r RunRequest) ToRequest() Request {
	return Request{
		Message:   r.Message,
		Resume:    r.Resume,
		JobOffers: r.JobOffers,
	}
}

// AssistantResponse is returned by POST /assistant.
type AssistantResponse struct {
	// Resolved execution mode label.
	// example: resume_eval
	Mode string `json:"mode"`
	// Normalized response payload.
	Response Payload `json:"response"`
	// Always "success" for 2xx responses.
	// example: success
	Status string `json:"status"`
	// Normalizer diagnostics (structure, confidence, redactions).
	Diagnostics Diagnostics `json:"diagnostics"`
}

// RunResponse is returned by POST /run/{adapter_name}.
type RunResponse struct {
	// Adapter that served the request.
	// example: job_match
	Adapter string `json:"adapter"`
	// Normalized response payload.
	Response Payload `json:"response"`
	// Always "success" for 2xx responses.
	// example: success
	Status string `json:"status"`
	// Normalizer diagnostics (structure, confidence, redactions).
	Diagnostics Diagnostics `json:"diagnostics"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Overall service status.
	// example: healthy
	Status string `json:"status"`
	// True when the base model runtime is loaded.
	ModelLoaded bool `json:"model_loaded"`
	// True when adapter discovery completed with at least one adapter.
	AdaptersReady bool `json:"adapters_ready"`
}

// AdaptersResponse is returned by GET /adapters.
type AdaptersResponse struct {
	// Names of discovered adapters, sorted.
	AvailableAdapters []string `json:"available_adapters"`
	// Number of discovered adapters.
	// example: 4
	Count int `json:"count"`
}

// ErrorResponse is the consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: adapter not found: unknown_adapter
	Error string `json:"error"`
	// Stable error kind for programmatic handling.
	// example: not_found
	Kind string `json:"kind,omitempty"`
	// HTTP status code.
	// example: 404
	Code int `json:"code"`
}
