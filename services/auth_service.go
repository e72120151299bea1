package services

import (
	"context"

	"online-canteen-api/metrics"
	"online-canteen-api/models"
)

// TokenIssuer signs access tokens for a user
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthService struct {
	users  *UserService
	tokens TokenIssuer
}

func NewAuthService(users *UserService, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// AuthResult is returned by every flow that hands out a token
type AuthResult struct {
	Token string
	User  *models.User
}

func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (*AuthResult, error) {
	in.Roles = nil
	user, err := s.users.CreateUser(ctx, in)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "failure").Inc()
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return s.issue(user)
}

// Refresh re-issues a token with the roles currently stored for the user
func (s *AuthService) Refresh(ctx context.Context, userID uint) (*AuthResult, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
