package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quadrant-labs/StrategyPipe/internal/enrich"
	"github.com/quadrant-labs/StrategyPipe/internal/flow"
	"github.com/quadrant-labs/StrategyPipe/internal/models"
	"github.com/quadrant-labs/StrategyPipe/internal/store"
)

// stubGateway returns canned enrichment content without any network calls.
type stubGateway struct{}

func (stubGateway) SynthesizePillarsAndStrategies(ctx context.Context, s1 models.Section1Data, s2 models.Section2Data) (models.PillarsStrategies, error) {
	return enrich.FallbackPillarsStrategies(), nil
}

func (stubGateway) SynthesizeFinalActionPlan(ctx context.Context, record models.SessionRecord) (models.ActionPlan, error) {
	return enrich.FallbackActionPlan(), nil
}

func newTestServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	engine := flow.NewEngine(flow.DefaultCatalog(), stubGateway{},
		flow.WithPromptDelay(time.Millisecond),
		flow.WithRestartDelay(time.Millisecond))
	t.Cleanup(engine.Stop)
	sessions := store.NewSessionStore(time.Minute)
	return NewServer(engine, sessions, options...)
}

// decodeSnapshot unwraps the API envelope and re-decodes the result into a
// flow snapshot.
func decodeSnapshot(t *testing.T, body *bytes.Buffer) flow.Snapshot {
	t.Helper()
	var envelope models.APIResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response envelope: %v", err)
	}
	if envelope.Status != string(models.APIStatusOK) {
		t.Fatalf("Expected ok status, got %q (%s)", envelope.Status, envelope.Message)
	}
	raw, err := json.Marshal(envelope.Result)
	if err != nil {
		t.Fatalf("Failed to re-marshal result: %v", err)
	}
	var snap flow.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	return snap
}

func doRequest(handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// waitForPrompt polls until the bot stops typing so the next answer is accepted.
func waitForPrompt(t *testing.T, handler http.Handler, sessionID string) flow.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec := doRequest(handler, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET session returned %d", rec.Code)
		}
		snap := decodeSnapshot(t, rec.Body)
		if !snap.BotTyping && !snap.Enriching {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Bot never stopped typing")
	return flow.Snapshot{}
}

func TestSessionLifecycle(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	// create
	rec := doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 on create, got %d: %s", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec.Body)
	if snap.ID == "" {
		t.Fatal("Expected a session ID")
	}
	if len(snap.Turns) == 0 || snap.Turns[0].Content.Text != flow.MsgIntro {
		t.Errorf("Expected intro turn, got %+v", snap.Turns)
	}

	// first prompt lands after the typing delay
	snap = waitForPrompt(t, handler, snap.ID)
	if snap.Control.Kind != flow.ControlFreeText {
		t.Errorf("Expected free text control, got %+v", snap.Control)
	}

	// answer the first question
	rec = doRequest(handler, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/answers", AnswerRequest{Text: "analytics upgrade"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on answer, got %d: %s", rec.Code, rec.Body.String())
	}
	answered := decodeSnapshot(t, rec.Body)
	if answered.Cursor != 1 {
		t.Errorf("Expected cursor 1 after answer, got %d", answered.Cursor)
	}

	// restart
	rec = doRequest(handler, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/restart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on restart, got %d", rec.Code)
	}
	restarted := decodeSnapshot(t, rec.Body)
	if restarted.Cursor != 0 {
		t.Errorf("Expected cursor 0 after restart, got %d", restarted.Cursor)
	}
	for _, turn := range restarted.Turns {
		if turn.Sender == models.SenderUser {
			t.Errorf("Expected user turns cleared after restart, found %q", turn.Content.Text)
		}
	}

	// delete
	rec = doRequest(handler, http.MethodDelete, "/api/v1/sessions/"+snap.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", rec.Code)
	}
	rec = doRequest(handler, http.MethodGet, "/api/v1/sessions/"+snap.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestSelectionEndpoint(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	rec := doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	snap := decodeSnapshot(t, rec.Body)
	sessionID := snap.ID

	// walk the full catalog up to the multi-select question
	answers := []AnswerRequest{
		{Text: "analytics upgrade"}, {Text: "retail"}, {Text: "azure"},
		{Text: "6 weeks"}, {Text: "data quality"}, {Text: "scaling"},
		{Text: "faster reports"}, {Text: "still manual"}, {Text: "governance"},
		{Text: "useCases"}, {Text: "api"}, {Text: "playbook"},
	}
	for i, a := range answers {
		waitForPrompt(t, handler, sessionID)
		rec = doRequest(handler, http.MethodPost, "/api/v1/sessions/"+sessionID+"/answers", a)
		if rec.Code != http.StatusOK {
			t.Fatalf("Answer %d returned %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	snap = waitForPrompt(t, handler, sessionID)
	if snap.Control.Kind != flow.ControlMultiSelect {
		t.Fatalf("Expected multi select control, got %+v", snap.Control)
	}

	rec = doRequest(handler, http.MethodPost, "/api/v1/sessions/"+sessionID+"/selection", SelectionRequest{Value: "training"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Toggle returned %d", rec.Code)
	}
	toggled := decodeSnapshot(t, rec.Body)
	if len(toggled.Control.Selected) != 1 || toggled.Control.Selected[0] != "training" {
		t.Errorf("Expected [training] selected, got %v", toggled.Control.Selected)
	}
	if !toggled.Control.SubmitEnabled {
		t.Error("Expected submit enabled after toggle")
	}

	// submit the selection and complete the session
	rec = doRequest(handler, http.MethodPost, "/api/v1/sessions/"+sessionID+"/answers", AnswerRequest{Values: []string{"training"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("Final answer returned %d", rec.Code)
	}
	final := decodeSnapshot(t, rec.Body)
	if !final.Complete {
		t.Error("Expected completed session after final answer")
	}
	if final.Progress != 100 {
		t.Errorf("Expected 100%% progress, got %v", final.Progress)
	}
}

func TestAuthMiddleware(t *testing.T) {
	server := newTestServer(t, WithAuthToken("secret-token"))
	handler := server.Routes()

	// health is open
	rec := doRequest(handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 on health without auth, got %d", rec.Code)
	}

	// API routes are gated
	rec = doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBuffer(nil))
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBuffer(nil))
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201 with correct token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMisconfiguration(t *testing.T) {
	// no token and auth not disabled: requests must not pass
	server := newTestServer(t)
	handler := server.Routes()

	rec := doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for auth misconfiguration, got %d", rec.Code)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/sessions/nope", nil},
		{http.MethodPost, "/api/v1/sessions/nope/answers", AnswerRequest{Text: "x"}},
		{http.MethodPost, "/api/v1/sessions/nope/selection", SelectionRequest{Value: "x"}},
		{http.MethodPost, "/api/v1/sessions/nope/restart", nil},
		{http.MethodDelete, "/api/v1/sessions/nope", nil},
	} {
		rec := doRequest(handler, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestInvalidJSONRejected(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	rec := doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	snap := decodeSnapshot(t, rec.Body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+snap.ID+"/answers", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid JSON, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	rec := doRequest(handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var envelope models.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if envelope.Status != string(models.APIStatusOK) {
		t.Errorf("Expected ok status, got %q", envelope.Status)
	}
}

func TestEmptyAnswerIsSilentNoOp(t *testing.T) {
	server := newTestServer(t, WithAuthDisabled(true))
	handler := server.Routes()

	rec := doRequest(handler, http.MethodPost, "/api/v1/sessions", nil)
	snap := decodeSnapshot(t, rec.Body)
	snap = waitForPrompt(t, handler, snap.ID)
	turnsBefore := len(snap.Turns)

	rec = doRequest(handler, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/answers", snap.ID), AnswerRequest{Text: "   "})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for ignored answer, got %d", rec.Code)
	}
	after := decodeSnapshot(t, rec.Body)
	if after.Cursor != 0 || len(after.Turns) != turnsBefore {
		t.Errorf("Blank answer changed session state: cursor=%d turns=%d", after.Cursor, len(after.Turns))
	}
}
