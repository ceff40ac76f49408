package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/behnamfe76/helpdesk-service/internal/auth"
	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UserService administers accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// UserInput carries account fields. An empty Password on update keeps the
// stored hash; an empty Role on update keeps the stored role.
type UserInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	var problems []string
	if email == "" {
		problems = append(problems, "email is required")
	}
	if input.Password == "" {
		problems = append(problems, "password is required")
	}
	if _, err := domain.ParseRole(string(input.Role)); err != nil {
		problems = append(problems, "role must be one of ADMIN, TECHNICIAN, CUSTOMER")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{Email: email, PasswordHash: hash, Role: input.Role}
	if err := s.users.Create(ctx, user); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, emailTaken(email)
		}
		return nil, s.storeError("create user", err)
	}
	return user, nil
}

// Update changes email, role and optionally the password.
func (s *UserService) Update(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	var problems []string
	if strings.TrimSpace(id) == "" {
		problems = append(problems, "user id is required")
	}
	if email == "" {
		problems = append(problems, "email is required")
	}
	if input.Role != "" {
		if _, err := domain.ParseRole(string(input.Role)); err != nil {
			problems = append(problems, "role must be one of ADMIN, TECHNICIAN, CUSTOMER")
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if email != user.Email {
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
	}

	user.Email = email
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, userNotFound(id)
		case isPgError(err, pgUniqueViolation):
			return nil, emailTaken(email)
		}
		return nil, s.storeError("update user", err)
	}
	return user, nil
}

// Get loads an account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, userNotFound(id)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userNotFound(id)
		}
		return nil, s.storeError("load user", err)
	}
	return user, nil
}

// Delete removes an account. Accounts that still own or are assigned tickets
// cannot be removed.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return userNotFound(id)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return userNotFound(id)
		case isPgError(err, pgForeignKeyViolation):
			return apperrors.NewConflict("user still owns or is assigned tickets", map[string]any{"id": id})
		}
		return s.storeError("delete user", err)
	}
	return nil
}

// List pages through accounts ordered by email.
func (s *UserService) List(ctx context.Context, page, size int) (domain.Page[domain.User], error) {
	if problems := pageProblems(page, size); len(problems) > 0 {
		return domain.Page[domain.User]{}, apperrors.NewValidationErrors(problems)
	}
	result, err := s.users.List(ctx, page, size)
	if err != nil {
		return domain.Page[domain.User]{}, s.storeError("list users", err)
	}
	return result, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return emailTaken(email)
		}
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	default:
		return s.storeError("lookup email", err)
	}
}

func (s *UserService) storeError(op string, err error) error {
	s.logger.Error("user store failure", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}

func userNotFound(id string) error {
	return apperrors.NewNotFound("user", map[string]any{"id": id})
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
