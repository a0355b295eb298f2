package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 5 * time.Minute
)

// GitHubUser is the subset of the GitHub user profile a session carries.
type GitHubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the profile name, falling back to the login.
func (u GitHubUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// GitHubConfig configures the OAuth client.
type GitHubConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	RedirectURL  string `yaml:"redirect_url" mapstructure:"redirect_url"`

	// APIBaseURL overrides the GitHub API host, used by tests.
	APIBaseURL string `yaml:"api_base_url" mapstructure:"api_base_url"`
}

// Validate checks the configuration for missing values.
func (c *GitHubConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("github: client_id and client_secret are required")
	}
	return nil
}

// GitHubProvider drives the GitHub OAuth authorization-code flow.
type GitHubProvider struct {
	oauth   *oauth2.Config
	apiBase string
}

// NewGitHubProvider creates an OAuth provider for GitHub logins.
func NewGitHubProvider(cfg GitHubConfig) *GitHubProvider {
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: apiBase,
	}
}

// AuthCodeURL returns the GitHub authorize URL carrying the given state.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}
	return token, nil
}

// FetchUser loads the authenticated user's profile from the GitHub API.
func (p *GitHubProvider) FetchUser(ctx context.Context, token *oauth2.Token) (GitHubUser, error) {
	var user GitHubUser

	client := p.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/user", nil)
	if err != nil {
		return user, fmt.Errorf("github: build user request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return user, fmt.Errorf("github: fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return user, fmt.Errorf("github: fetch user: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return user, fmt.Errorf("github: decode user: %w", err)
	}
	if user.Login == "" {
		return user, fmt.Errorf("github: user profile has no login")
	}
	return user, nil
}

// NewState returns a fresh opaque state value for the OAuth round trip.
func NewState() string {
	return uuid.New().String()
}

// SetStateCookie stores the OAuth state in a short-lived httponly cookie.
func SetStateCookie(c *gin.Context, state string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, int(stateTTL.Seconds()), "/", "", secure, true)
}

// ConsumeStateCookie clears the state cookie and reports whether the given
// state matches the stored one.
func ConsumeStateCookie(c *gin.Context, state string, secure bool) bool {
	stored, err := c.Cookie(stateCookieName)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, "", -1, "/", "", secure, true)
	return err == nil && stored != "" && stored == state
}
