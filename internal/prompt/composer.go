// Package prompt builds the final prompt text for each execution mode.
// Composition is a pure function over (mode, request); no model state is
// touched here.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"adapterd/pkg/types"
)

//go:embed prompts/general.txt
var generalPrompt string

//go:embed prompts/career_expert.txt
var careerPrompt string

// schemaMismatchError signals a request missing required adapter inputs.
// Client error: reported, not retried.
type schemaMismatchError struct{ field string }

func (e schemaMismatchError) Error() string {
	return "missing required field: " + e.field
}

// IsSchemaMismatch reports whether err indicates malformed structured input.
func IsSchemaMismatch(err error) bool {
	_, ok := err.(schemaMismatchError)
	return ok
}

// Compose builds the prompt for mode from the request.
func Compose(mode types.ExecutionMode, req types.Request) (string, error) {
	switch mode.Kind {
	case types.ModeCareerExpert:
		return fmt.Sprintf("%s\nUser: %s\nAdvisor:", strings.TrimSpace(careerPrompt), req.Message), nil
	case types.ModeAdapter:
		return composeAdapter(mode.Adapter, req)
	default:
		return fmt.Sprintf("%s\nUser: %s\nAssistant:", strings.TrimSpace(generalPrompt), req.Message), nil
	}
}

// composeAdapter fills the adapter's template with request fields. Every
// required input-schema field must resolve to a non-empty value.
func composeAdapter(desc *types.AdapterDescriptor, req types.Request) (string, error) {
	fields := requestFields(req)
	out := desc.PromptTemplate
	for _, in := range desc.Inputs {
		v := fields[in.Name]
		if in.Required && v == "" {
			return "", schemaMismatchError{field: in.Name}
		}
		out = strings.ReplaceAll(out, "{{"+in.Name+"}}", v)
	}
	return out, nil
}

// requestFields flattens the request into template values. JSON payloads
// are re-indented so the model sees readable structure.
func requestFields(req types.Request) map[string]string {
	fields := map[string]string{
		"message":         req.Message,
		"resume_json":     indentJSON(req.Resume),
		"job_offers_json": indentJSON(req.JobOffers),
	}
	if len(req.Context) > 0 {
		if b, err := json.MarshalIndent(req.Context, "", "  "); err == nil {
			fields["context"] = string(b)
		}
	}
	return fields
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
