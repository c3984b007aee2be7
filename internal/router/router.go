// Package router resolves each request to an execution mode. Classification
// is total: every input resolves to a mode, with general chat as the
// closing fallback, so routing itself never fails a request.
package router

import (
	"strings"

	"adapterd/internal/registry"
	"adapterd/pkg/types"
)

// lexicons hold canonical phrases per intent. Scoring counts phrase hits in
// the lowercased message; ties break toward the more specific intent.
var (
	careerLexicon = []string{
		"career", "skills", "improve", "help me get hired",
		"how can i prepare", "industry norms", "good practices",
		"how to write", "how to explain experience", "advice",
	}
	capabilityLexicons = map[types.Capability][]string{
		types.CapLatexResume: {
			"latex", "latex cv", "generate resume in latex", "create pdf resume",
		},
		types.CapResumeEval: {
			"resume", "cv", "evaluate", "review", "feedback",
			"score my profile", "what's wrong with my cv",
		},
		types.CapJobMatch: {
			"job", "job match", "job offers", "best job for me",
			"compare job offers", "vacancy", "which position",
		},
		types.CapRecruiterDialog: {
			"interview", "interviewer", "recruiter", "simulate interviewer",
			"ask me interview questions", "pretend to be a recruiter",
		},
	}
	// capabilityOrder fixes deterministic tie-breaking among capabilities.
	capabilityOrder = []types.Capability{
		types.CapLatexResume, types.CapResumeEval,
		types.CapJobMatch, types.CapRecruiterDialog,
	}
)

// Router maps requests to execution modes against the discovered adapters.
type Router struct {
	reg *registry.Registry
}

// New builds a Router over the given registry.
func New(reg *registry.Registry) *Router {
	return &Router{reg: reg}
}

// Classify resolves req to an execution mode. Priority: explicit adapter
// name, structured-payload rules, lexical intent scoring, general chat.
func (r *Router) Classify(req types.Request) types.ExecutionMode {
	if req.Adapter != "" {
		if d, ok := r.reg.Get(req.Adapter); ok {
			return types.ExecutionMode{Kind: types.ModeAdapter, Adapter: d}
		}
	}

	// Structured payloads are stronger signals than free text.
	hasResume := len(req.Resume) > 0
	hasOffers := len(req.JobOffers) > 0
	msg := strings.ToLower(req.Message)
	switch {
	case hasResume && hasOffers:
		if m, ok := r.adapterMode(types.CapJobMatch); ok {
			return m
		}
	case hasOffers:
		if m, ok := r.adapterMode(types.CapJobMatch); ok {
			return m
		}
	case hasResume:
		if containsAny(msg, capabilityLexicons[types.CapLatexResume]) {
			if m, ok := r.adapterMode(types.CapLatexResume); ok {
				return m
			}
		}
		if m, ok := r.adapterMode(types.CapResumeEval); ok {
			return m
		}
	}

	if msg != "" {
		if m, ok := r.scoreMessage(msg); ok {
			return m
		}
	}
	return types.ExecutionMode{Kind: types.ModeGeneralChat}
}

// scoreMessage runs lexical scoring over the capability and career lexicons.
func (r *Router) scoreMessage(msg string) (types.ExecutionMode, bool) {
	bestScore := 0
	var best types.ExecutionMode
	for _, cap := range capabilityOrder {
		score := hitCount(msg, capabilityLexicons[cap])
		if score <= bestScore {
			continue
		}
		if m, ok := r.adapterMode(cap); ok {
			bestScore, best = score, m
		}
	}
	// A capability hit outranks the generic career intent at equal score:
	// specific intents take precedence over the broad fallback.
	if career := hitCount(msg, careerLexicon); career > bestScore {
		return types.ExecutionMode{Kind: types.ModeCareerExpert}, true
	}
	if bestScore > 0 {
		return best, true
	}
	return types.ExecutionMode{}, false
}

// adapterMode resolves a capability to an adapter mode when the registry
// has a matching adapter. With an empty registry only the base-model modes
// remain reachable.
func (r *Router) adapterMode(cap types.Capability) (types.ExecutionMode, bool) {
	d, ok := r.reg.ByCapability(cap)
	if !ok {
		return types.ExecutionMode{}, false
	}
	return types.ExecutionMode{Kind: types.ModeAdapter, Adapter: d}, true
}

func hitCount(msg string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			n++
		}
	}
	return n
}

func containsAny(msg string, phrases []string) bool {
	return hitCount(msg, phrases) > 0
}
