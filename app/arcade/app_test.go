package arcade

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/auth"
	"github.com/skillsenselab/funcbox/database"
	"github.com/skillsenselab/funcbox/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() Config {
	cfg := Config{
		Database: database.Config{
			Driver:     database.DriverSQLite,
			DSN:        ":memory:",
			MaxRetries: 1,
			LogLevel:   "silent",
		},
		Session: auth.SessionConfig{Secret: "test-secret"},
		GitHub: auth.GitHubConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8080/api/auth/callback",
		},
		BaseURL: "http://localhost:8080",
	}
	return cfg
}

func newTestApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	cfg := testConfig()

	db, err := database.Open(t.Context(), cfg.Database, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	a, err := NewWithDB(cfg, db, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	r := gin.New()
	a.Register(r)
	return a, r
}

func sessionCookie(t *testing.T, a *App, user auth.GitHubUser) *http.Cookie {
	t.Helper()
	token, err := a.sessions.Issue(user)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: auth.DefaultCookieName, Value: token}
}

func do(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeObj(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var obj map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &obj); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return obj
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing session secret", func(c *Config) { c.Session.Secret = "" }, true},
		{"missing github client", func(c *Config) { c.GitHub.ClientID = "" }, true},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginRedirectsToGitHub(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, http.MethodGet, "/api/auth/login", "")
	if w.Code != http.StatusFound {
		t.Fatalf("GET /api/auth/login = %d, want 302", w.Code)
	}

	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://github.com/login/oauth/authorize") {
		t.Errorf("Location = %q, want GitHub authorize URL", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("authorize URL carries no state: %q", loc)
	}

	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("login did not set the oauth_state cookie")
	}
	if !strings.Contains(loc, "state="+stateCookie.Value) {
		t.Error("authorize URL state differs from the cookie state")
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, http.MethodGet, "/api/auth/callback?code=abc&state=forged", "")
	if w.Code != http.StatusFound {
		t.Fatalf("callback = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=auth_failed") {
		t.Errorf("Location = %q, want error=auth_failed redirect", loc)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	a, r := newTestApp(t)

	w := do(r, http.MethodGet, "/api/auth/logout", "", sessionCookie(t, a, auth.GitHubUser{Login: "octocat"}))
	if w.Code != http.StatusFound {
		t.Fatalf("logout = %d, want 302", w.Code)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.DefaultCookieName {
			if c.MaxAge >= 0 {
				t.Errorf("auth_token cookie MaxAge = %d, want negative", c.MaxAge)
			}
			return
		}
	}
	t.Error("logout did not clear the auth_token cookie")
}

func TestMe(t *testing.T) {
	a, r := newTestApp(t)

	w := do(r, http.MethodGet, "/api/auth/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/auth/me = %d, want 200", w.Code)
	}
	if body := decodeObj(t, w); body["authenticated"] != false {
		t.Errorf("anonymous authenticated = %v, want false", body["authenticated"])
	}

	cookie := sessionCookie(t, a, auth.GitHubUser{Login: "octocat", Name: "The Octocat", AvatarURL: "https://example.com/a.png"})
	w = do(r, http.MethodGet, "/api/auth/me", "", cookie)
	body := decodeObj(t, w)
	if body["authenticated"] != true {
		t.Fatalf("authenticated = %v, want true", body["authenticated"])
	}
	user := body["user"].(map[string]interface{})
	if user["username"] != "octocat" || user["name"] != "The Octocat" {
		t.Errorf("unexpected user payload: %v", user)
	}
}

func TestSubmitHighScoreRequiresAuth(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, http.MethodPost, "/api/high-scores", `{"score":100,"level":1,"lines":4}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated submit = %d, want 401", w.Code)
	}
}

func TestSubmitHighScore(t *testing.T) {
	a, r := newTestApp(t)
	cookie := sessionCookie(t, a, auth.GitHubUser{Login: "octocat"})

	w := do(r, http.MethodPost, "/api/high-scores", `{"score":1200,"level":5,"lines":42}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d, want 201: %s", w.Code, w.Body.String())
	}
	body := decodeObj(t, w)
	if body["player_name"] != "octocat" {
		t.Errorf("player_name = %v, want octocat (from session)", body["player_name"])
	}
	if body["score"] != float64(1200) || body["level"] != float64(5) || body["lines"] != float64(42) {
		t.Errorf("unexpected score payload: %v", body)
	}
	if body["created_at"] == nil {
		t.Error("expected created_at to be set")
	}
}

func TestSubmitHighScoreValidation(t *testing.T) {
	a, r := newTestApp(t)
	cookie := sessionCookie(t, a, auth.GitHubUser{Login: "octocat"})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing score", `{"level":1,"lines":4}`},
		{"negative score", `{"score":-1,"level":1,"lines":4}`},
		{"negative lines", `{"score":10,"level":1,"lines":-4}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/high-scores", tt.body, cookie)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}

	// Zero values are legitimate scores.
	w := do(r, http.MethodPost, "/api/high-scores", `{"score":0,"level":0,"lines":0}`, cookie)
	if w.Code != http.StatusCreated {
		t.Errorf("zero score submit = %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestListHighScores(t *testing.T) {
	a, r := newTestApp(t)
	cookie := sessionCookie(t, a, auth.GitHubUser{Login: "octocat"})

	for _, score := range []int{300, 900, 600} {
		body := `{"score":` + strconv.Itoa(score) + `,"level":1,"lines":1}`
		if w := do(r, http.MethodPost, "/api/high-scores", body, cookie); w.Code != http.StatusCreated {
			t.Fatalf("seed submit = %d: %s", w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/api/high-scores", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d, want 200", w.Code)
	}
	var scores []HighScore
	if err := json.Unmarshal(w.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	if scores[0].Score != 900 || scores[1].Score != 600 || scores[2].Score != 300 {
		t.Errorf("scores not ordered desc: %v", scores)
	}

	w = do(r, http.MethodGet, "/api/high-scores?limit=2", "")
	if err := json.Unmarshal(w.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode limited list: %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("limit=2 returned %d scores", len(scores))
	}

	w = do(r, http.MethodGet, "/api/high-scores?limit=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=abc = %d, want 400", w.Code)
	}
}
