package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// RegisterInput is the create-account payload.
type RegisterInput struct {
	FullName         string
	Email            string
	Password         string
	RegistrationType string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string
	Role        models.Role
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	tokens *auth.TokenService, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		log:         log.With("module", "users"),
	}
}

// Register creates an identity and returns it with a fresh access token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if in.FullName == "" || email == "" || in.Password == "" || in.RegistrationType == "" {
		return nil, "", common.NewValidationError("All fields (fullName, email, password, registrationType) are required")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", common.ErrorDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, "", fmt.Errorf("%w: lookup email: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", common.NewValidationError("Password is too long")
	}

	user, err := repo.Create(ctx, &models.User{
		FullName:     in.FullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleFromRegistrationType(in.RegistrationType),
	})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: create user: %v", common.ErrorInternal, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login checks the credentials. Unknown email and wrong password both fail
// with common.ErrorInvalidCredentials after a bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyNothing(password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup email: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &LoginResult{AccessToken: token, Role: user.Role}, nil
}

// Identity resolves a user id to the stored identity.
func (s *UserService) Identity(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// Authenticate verifies an access token and resolves its identity. A token
// for an identity that no longer exists yields common.ErrorUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.Identity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, err
	}
	return user, nil
}
