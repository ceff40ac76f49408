package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/behnamfe76/helpdesk-service/internal/auth"
	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates login, token refresh and logout.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
	now         func() time.Time
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	BcryptCost  int
	Logger      *zap.Logger
}

// Session is the result of a successful login or refresh.
type Session struct {
	User  *domain.User
	Token auth.IssuedToken
}

// NewAuthService builds the service. Without a revocation store, refresh and
// logout do not invalidate the previous token.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    deps.Tokens,
		revocations: deps.Revocations,
		bcryptCost:  deps.BcryptCost,
		now:         time.Now,
		logger:      logger,
	}
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	var problems []string
	if email == "" {
		problems = append(problems, "email is required")
	}
	if password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// Refresh swaps the caller's still valid token for a new one and revokes the
// old token id.
func (s *AuthService) Refresh(ctx context.Context, principal *auth.Principal) (*Session, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.NewInternalError(err)
	}
	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, principal); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes the caller's token.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return s.revoke(ctx, principal)
}

// SeedAdmin creates the administrator account when no user has email yet.
// It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	if strings.TrimSpace(password) == "" {
		return false, errors.New("admin password is required to seed " + email)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.User{Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Info("seeded admin account", zap.String("email", email))
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token}, nil
}

func (s *AuthService) revoke(ctx context.Context, principal *auth.Principal) error {
	if s.revocations == nil || principal.TokenID == "" {
		return nil
	}
	ttl := principal.ExpiresAt.Sub(s.now())
	if err := s.revocations.Revoke(ctx, principal.TokenID, ttl); err != nil {
		s.logger.Error("token revocation failed", zap.String("token_id", principal.TokenID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return nil
}
