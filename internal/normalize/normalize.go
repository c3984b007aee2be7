// Package normalize turns raw model output into a validated Response.
// Structured extraction is best-effort: malformed output degrades to a
// free-text payload instead of failing the request.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"adapterd/pkg/types"
)

// TextField is the payload key used by the free-text fallback.
const TextField = "text"

// Normalize parses raw model output into the response shape declared for
// mode and applies the safety filter. It is total: every raw output yields
// a usable Response.
func Normalize(mode types.ExecutionMode, req types.Request, raw string) types.Response {
	resp := types.Response{Mode: mode.Label()}

	decoded := decodeObject(raw)
	if mode.Kind == types.ModeAdapter && decoded != nil {
		if payload, ok := extractSchema(mode.Adapter.Outputs, decoded); ok {
			resp.Payload = payload
			resp.Diagnostics.Structured = true
		}
	}
	if resp.Payload == nil {
		resp.Payload = types.Payload{TextField: strings.TrimSpace(raw)}
	}

	// Diagnostics ride along even when not part of the declared schema.
	if decoded != nil {
		if c := coerceFloat(decoded["confidence"]); !math.IsNaN(c) {
			resp.Diagnostics.Confidence = &c
		}
		if r := coerceString(decoded["rationale"]); r != "" {
			resp.Diagnostics.Rationale = r
		}
	}

	resp.Payload, resp.Diagnostics.Redactions = redactPayload(resp.Payload, allowedTerms(req))
	return resp
}

// decodeObject extracts the first JSON object from raw, tolerating markdown
// code fences around it. Returns nil when no object decodes.
func decodeObject(raw string) map[string]any {
	s := stripFences(raw)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &m); err != nil {
		return nil
	}
	return m
}

// extractSchema keeps exactly the declared output fields. Any missing
// required field rejects the structure so the caller falls back to text.
func extractSchema(outputs []types.SchemaField, decoded map[string]any) (types.Payload, bool) {
	if len(outputs) == 0 {
		return nil, false
	}
	payload := types.Payload{}
	for _, f := range outputs {
		v, ok := decoded[f.Name]
		if !ok {
			if f.Required {
				return nil, false
			}
			continue
		}
		payload[f.Name] = v
	}
	if len(payload) == 0 {
		return nil, false
	}
	return payload, true
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.Trim(s, "`")
	return strings.TrimSpace(s)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
