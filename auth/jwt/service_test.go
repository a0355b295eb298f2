package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type testClaims struct {
	gojwt.RegisteredClaims
	Username string `json:"username"`
}

func newTestService(t *testing.T, cfg Config) *Service[*testClaims] {
	t.Helper()
	svc, err := NewService(cfg, func() *testClaims { return &testClaims{} })
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(Config{}, func() *testClaims { return &testClaims{} })
	if err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestGenerateAndParse(t *testing.T) {
	svc := newTestService(t, Config{Secret: "test-secret"})

	token, err := svc.Generate(&testClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "octocat",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Username != "octocat" {
		t.Errorf("username = %q, want octocat", claims.Username)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	svc := newTestService(t, Config{Secret: "test-secret"})

	token, err := svc.Generate(&testClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Username: "octocat",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := svc.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t, Config{Secret: "secret-a"})
	other := newTestService(t, Config{Secret: "secret-b"})

	token, err := svc.Generate(&testClaims{Username: "octocat"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	svc := newTestService(t, Config{Secret: "test-secret"})

	// alg=none style token: header.payload. with empty signature
	parts := strings.Split("eyJhbGciOiJub25lIn0.eyJ1c2VybmFtZSI6Im9jdG9jYXQifQ.", ".")
	if len(parts) != 3 {
		t.Fatal("bad fixture")
	}
	if _, err := svc.Parse(strings.Join(parts, ".")); err == nil {
		t.Error("expected error for unsigned token")
	}
}

func TestParseEnforcesIssuer(t *testing.T) {
	issuing := newTestService(t, Config{Secret: "s", Issuer: "funcbox"})
	strict := newTestService(t, Config{Secret: "s", Issuer: "other-service"})

	token, err := issuing.Generate(&testClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "funcbox",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := issuing.Parse(token); err != nil {
		t.Errorf("matching issuer rejected: %v", err)
	}
	if _, err := strict.Parse(token); err == nil {
		t.Error("expected error for mismatched issuer")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Secret: "s"}
	cfg.ApplyDefaults()
	if cfg.TTL != 30*24*time.Hour {
		t.Errorf("TTL = %v, want 720h", cfg.TTL)
	}
}
