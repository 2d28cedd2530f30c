// internal/common/auth/session.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hostel-portal/internal/common/config"
	apperrors "hostel-portal/internal/common/errors"
	httpclient "hostel-portal/internal/common/http"
	"hostel-portal/internal/models"
)

// expirySkew renews the token slightly before the backend would reject it.
const expirySkew = 30 * time.Second

// Session is the role-scoping collaborator: it logs in, caches the bearer
// token until expiry and exposes the current user and role.
type Session struct {
	client   *httpclient.Client
	email    string
	password string
	preset   bool

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	user        *models.User
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionUser accepts both "id" and "_id" since the auth routes use the former.
type sessionUser struct {
	ID         string `json:"id"`
	MongoID    string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Block      string `json:"block"`
	RoomNumber string `json:"roomNumber"`
	StudentID  string `json:"studentId"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	User      sessionUser `json:"user"`
}

// NewSession builds a session over an unauthenticated client. A configured
// token is used as-is and never renewed.
func NewSession(client *httpclient.Client, cfg config.SessionConfig) *Session {
	s := &Session{
		client:   client,
		email:    cfg.Email,
		password: cfg.Password,
	}
	if cfg.Token != "" {
		s.accessToken = cfg.Token
		s.preset = true
	}
	return s
}

// Login authenticates and loads the current user.
func (s *Session) Login(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preset {
		return s.loadProfile(ctx)
	}
	if err := s.login(ctx); err != nil {
		return nil, err
	}
	return s.user, nil
}

// Token implements the transport's TokenSource, logging in again once the
// cached token has expired.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && (s.preset || s.tokenExpiry.IsZero() || time.Now().Before(s.tokenExpiry)) {
		return s.accessToken, nil
	}
	if s.preset || s.email == "" {
		return "", apperrors.NewAuthenticationError(fmt.Errorf("session expired"))
	}
	if err := s.login(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Role returns the current role, or "" before login.
func (s *Session) Role() models.Role {
	if u := s.User(); u != nil {
		return u.Role
	}
	return ""
}

func (s *Session) login(ctx context.Context) error {
	var resp loginResponse
	err := s.client.SendJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: s.email, Password: s.password}, &resp)
	if err != nil {
		return apperrors.NewAuthenticationError(err)
	}
	if resp.Token == "" {
		return apperrors.NewAuthenticationError(fmt.Errorf("login response carried no token"))
	}
	user, err := resp.User.toModel()
	if err != nil {
		return apperrors.NewAuthenticationError(err)
	}

	s.accessToken = resp.Token
	s.tokenExpiry = time.Time{}
	if resp.ExpiresIn > 0 {
		s.tokenExpiry = time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - expirySkew)
	}
	s.user = user
	return nil
}

func (s *Session) loadProfile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User sessionUser `json:"user"`
	}
	authed := s.client.WithTokenSource(presetToken(s.accessToken))
	if err := authed.GetJSON(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, apperrors.NewAuthenticationError(err)
	}
	user, err := resp.User.toModel()
	if err != nil {
		return nil, apperrors.NewAuthenticationError(err)
	}
	s.user = user
	return user, nil
}

func (u sessionUser) toModel() (*models.User, error) {
	role, err := models.ParseRole(u.Role)
	if err != nil {
		return nil, err
	}
	id := u.ID
	if id == "" {
		id = u.MongoID
	}
	return &models.User{
		ID:         id,
		Name:       u.Name,
		Email:      u.Email,
		Role:       role,
		Block:      u.Block,
		RoomNumber: u.RoomNumber,
		StudentID:  u.StudentID,
		IsActive:   true,
	}, nil
}

type presetToken string

func (p presetToken) Token(context.Context) (string, error) { return string(p), nil }
