package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/security"
	"github.com/google/uuid"
)

// TokenIssuer issues identity tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo domain.UserRepository
	tokens   TokenIssuer
	hasher   *security.PasswordHasher
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	tokens TokenIssuer,
	hasher *security.PasswordHasher,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		now:      time.Now,
	}
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, input domain.Credentials) (*domain.AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "required"
	}
	switch {
	case input.Password == "":
		fields["password"] = "required"
	case len(input.Password) > security.MaxPasswordBytes:
		fields["password"] = fmt.Sprintf("must be at most %d bytes", security.MaxPasswordBytes)
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	// The store's unique index settles concurrent registrations.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.signIn(user)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, input domain.Credentials) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Compare(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// Me returns the user behind an authenticated request
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		// A valid token for a user that no longer resolves is not an identity.
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) signIn(user *domain.User) (*domain.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.AuthResult{Token: token, User: user.Public()}, nil
}
