package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/notify"
	"github.com/sandeepkv93/timetally/internal/session"
	"github.com/sandeepkv93/timetally/internal/storage"
	"github.com/sandeepkv93/timetally/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	speech := testutil.NewFakeSpeech("Alex")
	s, err := session.New(testContext(t), session.Options{
		Store:        storage.NewMemoryStore(),
		Dispatcher:   notify.NewDispatcher(&testutil.FakeSound{}, speech, speech),
		Logger:       zerolog.Nop(),
		TickInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return NewServer(s, "127.0.0.1:0", zerolog.Nop()), s
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetState(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/v1/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var p model.Projection
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.CurrentList != model.DefaultListName || p.State != model.RunIdle {
		t.Fatalf("unexpected projection: %+v", p)
	}
	if p.EstimatedFinish != model.NoEstimateText {
		t.Fatalf("unexpected estimate: %q", p.EstimatedFinish)
	}
}

func TestPostCommand(t *testing.T) {
	srv, s := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/v1/commands", `{"command":"add stretch 90s"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message string           `json:"message"`
		State   model.Projection `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.State.Tasks) != 1 || body.State.Tasks[0].DurationSeconds != 90 {
		t.Fatalf("unexpected state: %+v", body.State)
	}

	do(t, srv, http.MethodPost, "/api/v1/commands", `{"command":"start"}`)
	if s.State() != model.RunRunning {
		t.Fatalf("expected running, got %s", s.State())
	}
}

func TestPostCommandErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	cases := []struct {
		body string
		want int
	}{
		{`{}`, http.StatusBadRequest},
		{`{"command":"frobnicate"}`, http.StatusBadRequest},
		{`{"command":"rm 3"}`, http.StatusNotFound},
		{`{"command":"delete"}`, http.StatusConflict},
		{`{"command":"new default"}`, http.StatusConflict},
		{`{"command":"export out.xml"}`, http.StatusNotImplemented},
		{`{"command":"voice Nobody"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(t, srv, http.MethodPost, "/api/v1/commands", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (body=%s)", tc.body, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestExportImport(t *testing.T) {
	srv, s := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/v1/commands", `{"command":"add plan 10s"}`)

	rec := do(t, srv, http.MethodGet, "/api/v1/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "tasks-default.xml") {
		t.Fatalf("unexpected disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "<Name>plan</Name><Time>10</Time>") {
		t.Fatalf("unexpected export body: %s", rec.Body.String())
	}

	doc := `<List><ListName>Work</ListName><Task><Name>Email</Name><Time>60</Time></Task></List>`
	rec = do(t, srv, http.MethodPost, "/api/v1/import?mode=replace", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d body=%s", rec.Code, rec.Body.String())
	}
	p := s.Snapshot()
	if p.CurrentList != "Work" || len(p.Tasks) != 1 || p.Tasks[0].Name != "Email" {
		t.Fatalf("unexpected state after import: %+v", p)
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/import", "<List><Task>")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed import status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/api/v1/import?mode=merge", doc)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown mode status = %d", rec.Code)
	}
}

func TestGetVoices(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/v1/voices", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Alex"`) {
		t.Fatalf("unexpected voices response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
