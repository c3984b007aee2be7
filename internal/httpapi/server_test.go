package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adapterd/internal/manager"
	"adapterd/internal/prompt"
	"adapterd/internal/runtime"
	"adapterd/pkg/types"
)

// fakeService scripts pipeline outcomes per test.
type fakeService struct {
	health   types.HealthResponse
	adapters []string
	resp     types.Response
	err      error
	ready    bool

	lastName string
	lastReq  types.Request
}

func (f *fakeService) Health() types.HealthResponse { return f.health }
func (f *fakeService) AdapterNames() []string       { return f.adapters }
func (f *fakeService) Ready() bool                  { return f.ready }

func (f *fakeService) Assist(ctx context.Context, req types.Request) (types.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeService) RunAdapter(ctx context.Context, name string, req types.Request) (types.Response, error) {
	f.lastName, f.lastReq = name, req
	return f.resp, f.err
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	svc := &fakeService{health: types.HealthResponse{Status: "healthy", ModelLoaded: true, AdaptersReady: true}}
	h := NewMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[types.HealthResponse](t, rec)
	if !got.ModelLoaded || !got.AdaptersReady || got.Status != "healthy" {
		t.Fatalf("unexpected health body %+v", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing nosniff header")
	}
}

func TestAdaptersEndpoint(t *testing.T) {
	svc := &fakeService{adapters: []string{"job_match", "resume_eval"}}
	h := NewMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/adapters", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decode[types.AdaptersResponse](t, rec)
	if got.Count != 2 || len(got.AvailableAdapters) != 2 {
		t.Fatalf("unexpected adapters body %+v", got)
	}
}

func TestRunEndpointSuccess(t *testing.T) {
	svc := &fakeService{resp: types.Response{
		Mode:        "resume_eval",
		Payload:     types.Payload{"feedback": "solid"},
		Diagnostics: types.Diagnostics{Structured: true},
	}}
	h := NewMux(svc)

	rec := postJSON(t, h, "/run/resume_eval", `{"resume": {"name": "Ada"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[types.RunResponse](t, rec)
	if got.Adapter != "resume_eval" || got.Status != "success" {
		t.Fatalf("unexpected run body %+v", got)
	}
	if got.Response["feedback"] != "solid" {
		t.Fatalf("unexpected payload %v", got.Response)
	}
	if svc.lastName != "resume_eval" {
		t.Fatalf("adapter name not forwarded, got %q", svc.lastName)
	}
}

func TestAssistantEndpointSuccess(t *testing.T) {
	svc := &fakeService{resp: types.Response{
		Mode:    "general",
		Payload: types.Payload{"text": "hello"},
	}}
	h := NewMux(svc)

	rec := postJSON(t, h, "/assistant", `{"message": "hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[types.AssistantResponse](t, rec)
	if got.Mode != "general" || got.Status != "success" {
		t.Fatalf("unexpected assistant body %+v", got)
	}
	if svc.lastReq.Message != "hi" {
		t.Fatalf("message not forwarded, got %q", svc.lastReq.Message)
	}
}

func TestErrorMapping(t *testing.T) {
	mismatch := composeMismatch(t)
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", manager.ErrAdapterNotFound("ghost"), http.StatusNotFound, "not_found"},
		{"busy", manager.ErrBusy(), http.StatusTooManyRequests, "busy"},
		{"schema mismatch", mismatch, http.StatusBadRequest, "schema_mismatch"},
		{"runtime unavailable", runtime.ErrUnavailable("no llama"), http.StatusServiceUnavailable, "dependency_unavailable"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMux(&fakeService{err: tc.err})
			rec := postJSON(t, h, "/assistant", `{"message": "hi"}`)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			got := decode[types.ErrorResponse](t, rec)
			if got.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %+v", tc.kind, got)
			}
		})
	}
}

// composeMismatch produces a real schema mismatch error through composition.
func composeMismatch(t *testing.T) error {
	t.Helper()
	mode := types.ExecutionMode{Kind: types.ModeAdapter, Adapter: &types.AdapterDescriptor{
		Name:           "resume_eval",
		PromptTemplate: "Input:\n{{resume_json}}\nAnswer:",
		Inputs:         []types.SchemaField{{Name: "resume_json", Required: true}},
	}}
	_, err := prompt.Compose(mode, types.Request{Message: "hi"})
	if !prompt.IsSchemaMismatch(err) {
		t.Fatalf("expected schema mismatch from compose, got %v", err)
	}
	return err
}

func TestRejectsWrongContentType(t *testing.T) {
	h := NewMux(&fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/assistant", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestRejectsMalformedJSON(t *testing.T) {
	h := NewMux(&fakeService{})
	rec := postJSON(t, h, "/assistant", `{"message": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	got := decode[types.ErrorResponse](t, rec)
	if got.Kind != "bad_request" {
		t.Fatalf("unexpected error body %+v", got)
	}
}

func TestReadyz(t *testing.T) {
	h := NewMux(&fakeService{ready: false})
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while loading, got %d", rec.Code)
	}

	h = NewMux(&fakeService{ready: true})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}
}
