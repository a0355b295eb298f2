package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp() (*App, *gin.Engine) {
	r := gin.New()
	a := New(logger.NewDefault("test"))
	a.Register(r)
	return a, r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestMessageStore(t *testing.T) {
	s := NewMessageStore()

	first := s.Add("alice", "hello")
	second := s.Add("bob", "hi there")

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
	if first.Timestamp == "" {
		t.Error("expected a timestamp on new messages")
	}
	if got := len(s.All()); got != 2 {
		t.Errorf("All returned %d messages, want 2", got)
	}

	since := s.Since(1)
	if len(since) != 1 || since[0].ID != 2 {
		t.Errorf("Since(1) = %v, want only message 2", since)
	}
	if got := s.Since(2); got != nil {
		t.Errorf("Since(2) = %v, want none", got)
	}
}

func TestWelcome(t *testing.T) {
	_, r := newTestApp()

	w := do(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", w.Code)
	}
	if body := decode(t, w); body["message"] != "SSE Chat API" {
		t.Errorf("message = %v, want SSE Chat API", body["message"])
	}
}

func TestCreateAndListMessages(t *testing.T) {
	_, r := newTestApp()

	w := do(r, http.MethodPost, "/api/messages", `{"username":"alice","content":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/messages = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	msg, ok := body["message"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no message object: %s", w.Body.String())
	}
	if msg["id"] != float64(1) || msg["username"] != "alice" || msg["content"] != "hello" {
		t.Errorf("unexpected message: %v", msg)
	}

	w = do(r, http.MethodGet, "/api/messages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/messages = %d, want 200", w.Code)
	}
	list := decode(t, w)["messages"].([]interface{})
	if len(list) != 1 {
		t.Errorf("got %d messages, want 1", len(list))
	}
}

func TestCreateMessageValidation(t *testing.T) {
	_, r := newTestApp()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing username", `{"content":"hello"}`},
		{"missing content", `{"username":"alice"}`},
		{"empty body", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/messages", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func streamOnce(t *testing.T, r *gin.Engine, lastEventID string, wait time.Duration) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(wait, cancel)
	defer timer.Stop()
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	r.ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	return w.Body.String()
}

func TestStreamDeliversBacklog(t *testing.T) {
	a, r := newTestApp()
	a.messages.Add("alice", "first")
	a.messages.Add("bob", "second")

	body := streamOnce(t, r, "", 50*time.Millisecond)

	if !strings.Contains(body, "id: 1\n") || !strings.Contains(body, "id: 2\n") {
		t.Errorf("stream missing event ids:\n%s", body)
	}
	if !strings.Contains(body, `data: {"type":"message","message":{"id":1,"username":"alice","content":"first"`) {
		t.Errorf("stream missing first message payload:\n%s", body)
	}
}

func TestStreamResumesAfterLastEventID(t *testing.T) {
	a, r := newTestApp()
	a.messages.Add("alice", "old")
	a.messages.Add("bob", "new")

	body := streamOnce(t, r, "1", 50*time.Millisecond)

	if strings.Contains(body, "id: 1\n") {
		t.Errorf("stream replayed event before cursor:\n%s", body)
	}
	if !strings.Contains(body, "id: 2\n") {
		t.Errorf("stream missing event after cursor:\n%s", body)
	}
}

func TestStreamPicksUpNewMessages(t *testing.T) {
	a, r := newTestApp()

	go func() {
		time.Sleep(100 * time.Millisecond)
		a.messages.Add("carol", "late arrival")
	}()

	body := streamOnce(t, r, "", 800*time.Millisecond)

	if !strings.Contains(body, `"content":"late arrival"`) {
		t.Errorf("stream missing message posted after connect:\n%s", body)
	}
}

func TestStreamStats(t *testing.T) {
	a, r := newTestApp()

	release := a.streams.Register("127.0.0.1:1234")
	defer release()

	w := do(r, http.MethodGet, "/api/stream/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/stream/stats = %d, want 200", w.Code)
	}
	body := decode(t, w)
	if body["active_streams"] != float64(1) {
		t.Errorf("active_streams = %v, want 1", body["active_streams"])
	}
	if body["total_streams"] != float64(1) {
		t.Errorf("total_streams = %v, want 1", body["total_streams"])
	}
}
