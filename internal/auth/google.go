// Package auth implements Google sign-in on top of the users service.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/users"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL           = 5 * time.Minute
)

var errNoProfile = errors.New("google profile has no subject")

// SessionIssuer resolves a Google profile to a local account session.
type SessionIssuer interface {
	UpsertGoogle(ctx context.Context, profile users.GoogleProfile) (users.Session, error)
}

// GoogleConfig holds the OAuth client settings. UIRedirectURL receives the
// issued JWT as ?token= after a successful callback.
type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	UIRedirectURL string
}

func (c GoogleConfig) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != "" && c.UIRedirectURL != ""
}

type GoogleService struct {
	cfg         GoogleConfig
	oauth       *oauth2.Config
	states      *stateStore
	sessions    SessionIssuer
	userInfoURL string
}

func NewGoogleService(cfg GoogleConfig, sessions SessionIssuer) *GoogleService {
	return &GoogleService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		states:      newStateStore(time.Now),
		sessions:    sessions,
		userInfoURL: defaultUserInfoURL,
	}
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.cfg.complete() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	state := s.states.issue(stateTTL)
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")))
}

func (s *GoogleService) callback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Missing state or code", nil)
		return
	}
	if !s.states.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Sign-in link expired, please try again", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		telemetry.L().Warn("auth.google_exchange_failed", zap.Error(err))
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Could not verify Google sign-in", nil)
		return
	}

	profile, err := s.profile(ctx, token)
	if err != nil {
		telemetry.L().Warn("auth.google_profile_failed", zap.Error(err))
		respond.Error(c, http.StatusBadGateway, "auth_failed", "Could not load Google profile", nil)
		return
	}

	session, err := s.sessions.UpsertGoogle(ctx, profile)
	switch {
	case errors.Is(err, users.ErrInvalidInput):
		respond.Error(c, http.StatusBadGateway, "auth_failed", "Google profile is incomplete", nil)
		return
	case err != nil:
		telemetry.L().Error("auth.google_upsert_failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	target, err := withToken(s.cfg.UIRedirectURL, session.Token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	telemetry.L().Info("auth.google_login", zap.String("user_id", session.User.ID))
	c.Redirect(http.StatusFound, target)
}

// profile reads the userinfo endpoint. The v2 endpoint names the subject "id".
func (s *GoogleService) profile(ctx context.Context, token *oauth2.Token) (users.GoogleProfile, error) {
	resp, err := s.oauth.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return users.GoogleProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return users.GoogleProfile{}, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return users.GoogleProfile{}, fmt.Errorf("userinfo: %w", err)
	}
	if info.Sub == "" {
		info.Sub = info.ID
	}
	if info.Sub == "" {
		return users.GoogleProfile{}, errNoProfile
	}
	return users.GoogleProfile{Sub: info.Sub, Email: info.Email, Name: info.Name, PictureURL: info.Picture}, nil
}

// stateStore holds single-use OAuth state values until they expire.
type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func newStateStore(now func() time.Time) *stateStore {
	return &stateStore{items: make(map[string]time.Time), now: now}
}

func (s *stateStore) issue(ttl time.Duration) string {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
	return state
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	delete(s.items, state)
	return ok && !s.now().After(exp)
}

func withToken(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
