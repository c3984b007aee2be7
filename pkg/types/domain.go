package types

import "encoding/json"

// Capability identifies the task an adapter was trained for.
type Capability string

const (
	CapResumeEval      Capability = "resume_eval"
	CapJobMatch        Capability = "job_match"
	CapRecruiterDialog Capability = "recruiter_dialog"
	CapLatexResume     Capability = "latex_resume"
)

// Capabilities lists every capability the service understands.
// Discovery rejects adapters declaring anything else.
func Capabilities() []Capability {
	return []Capability{CapResumeEval, CapJobMatch, CapRecruiterDialog, CapLatexResume}
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	for _, k := range Capabilities() {
		if c == k {
			return true
		}
	}
	return false
}

// SchemaField declares one field of an adapter's input or output schema.
type SchemaField struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
}

// AdapterDescriptor is the immutable metadata for one discovered adapter.
// Built once at discovery; never mutated afterwards.
type AdapterDescriptor struct {
	// Unique adapter name (directory name under the adapters dir).
	// example: resume_eval
	Name string `json:"name"`
	// Directory holding the adapter artifacts.
	Dir string `json:"dir"`
	// Path to the adapter weights file.
	WeightsPath string `json:"weights_path"`
	// Declared task capability.
	Capability Capability `json:"capability"`
	// Prompt template with {{field}} placeholders filled from the request payload.
	PromptTemplate string `json:"prompt_template"`
	// Declared input fields; required ones must be present in the request.
	Inputs []SchemaField `json:"inputs"`
	// Declared output fields the normalizer extracts from model output.
	Outputs []SchemaField `json:"outputs"`
}

// ModeKind tags the resolved handling path for a request.
type ModeKind string

const (
	ModeGeneralChat  ModeKind = "general"
	ModeCareerExpert ModeKind = "career"
	ModeAdapter      ModeKind = "adapter"
)

// ExecutionMode is the router's decision for one request. For ModeAdapter
// the descriptor is always non-nil; for the other kinds it is nil.
type ExecutionMode struct {
	Kind    ModeKind
	Adapter *AdapterDescriptor
}

// Label returns the wire name for the mode: the adapter name for adapter
// modes, otherwise the kind itself.
func (m ExecutionMode) Label() string {
	if m.Kind == ModeAdapter && m.Adapter != nil {
		return m.Adapter.Name
	}
	return string(m.Kind)
}

// Request is one orchestration call's immutable input.
type Request struct {
	// Free-form user message.
	Message string `json:"message"`
	// Optional conversational context.
	Context map[string]any `json:"context,omitempty"`
	// Optional explicit adapter name; takes priority over classification.
	Adapter string `json:"adapter,omitempty"`
	// Structured resume payload from the CV-ingestion service.
	Resume json.RawMessage `json:"resume_json,omitempty"`
	// Structured job-offer records from the job-listing source.
	JobOffers json.RawMessage `json:"job_offers_json,omitempty"`
}

// Payload carries the normalized response fields. Structured adapter output
// keeps its declared fields; free-text fallback uses the single "text" key.
type Payload map[string]any

// Diagnostics reports how the normalizer treated the raw model output.
type Diagnostics struct {
	// True when structured extraction matched the declared output schema.
	Structured bool `json:"structured"`
	// Model-reported confidence, when present in the output.
	Confidence *float64 `json:"confidence,omitempty"`
	// Model-reported rationale, when present in the output.
	Rationale string `json:"rationale,omitempty"`
	// Number of safety redactions applied to the output.
	Redactions int `json:"redactions,omitempty"`
}

// Response is the orchestrator's result for one request.
type Response struct {
	Mode        string      `json:"mode"`
	Payload     Payload     `json:"response"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Resume mirrors the CV-ingestion collaborator's schema.
type Resume struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	Education  string   `json:"education"`
	Experience []string `json:"experience"`
}

// JobOffer is one record from the job-listing source.
type JobOffer struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}
