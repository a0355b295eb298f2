// Package auth provides browser session handling for the demo apps: JWT
// session cookies and the GitHub OAuth login flow.
package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/skillsenselab/funcbox/auth/jwt"
	"github.com/skillsenselab/funcbox/errors"
)

// DefaultCookieName is the session cookie name.
const DefaultCookieName = "auth_token"

const sessionContextKey = "auth_session"

// SessionClaims is the JWT payload of a logged-in user.
type SessionClaims struct {
	gojwt.RegisteredClaims
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// SessionConfig configures the session service.
type SessionConfig struct {
	// Secret signs session tokens.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// TTL is the session lifetime (default: 30 days).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// CookieName overrides the session cookie name.
	CookieName string `yaml:"cookie_name" mapstructure:"cookie_name"`

	// Secure marks the cookie Secure; leave false for local HTTP development.
	Secure bool `yaml:"secure" mapstructure:"secure"`
}

// Sessions issues, verifies and transports session tokens via cookies.
type Sessions struct {
	tokens     *jwt.Service[*SessionClaims]
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessions creates a session service.
func NewSessions(cfg SessionConfig) (*Sessions, error) {
	svc, err := jwt.NewService(jwt.Config{Secret: cfg.Secret, TTL: cfg.TTL}, func() *SessionClaims {
		return &SessionClaims{}
	})
	if err != nil {
		return nil, err
	}

	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return &Sessions{
		tokens:     svc,
		cookieName: cookieName,
		ttl:        svc.TTL(),
		secure:     cfg.Secure,
	}, nil
}

// TTL returns the session lifetime.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue mints a session token for the given GitHub user.
func (s *Sessions) Issue(user GitHubUser) (string, error) {
	now := time.Now()
	return s.tokens.Generate(&SessionClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   user.Login,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username:  user.Login,
		Name:      user.DisplayName(),
		AvatarURL: user.AvatarURL,
	})
}

// Parse verifies a session token and returns its claims.
func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	return s.tokens.Parse(token)
}

// SetCookie attaches the session token as an httponly, samesite-lax cookie.
func (s *Sessions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
}

// FromRequest returns the session claims from the request cookie, if a valid
// session is present.
func (s *Sessions) FromRequest(c *gin.Context) (*SessionClaims, bool) {
	token, err := c.Cookie(s.cookieName)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := s.Parse(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Require is a Gin middleware that rejects unauthenticated requests with
// 401: a missing cookie is reported as unauthorized, a cookie that fails
// verification as an invalid token. On success the claims are stored in the
// context for Current.
func (s *Sessions) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookieName)
		if err != nil || token == "" {
			appErr := errors.Unauthorized("Authentication required")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		claims, err := s.Parse(token)
		if err != nil {
			appErr := errors.InvalidToken()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

// Current returns the session claims stored by Require.
func Current(c *gin.Context) (*SessionClaims, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*SessionClaims)
	return claims, ok
}
