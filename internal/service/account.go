// Package service holds the account business logic: registration, login,
// token checks, revocation and the admin user operations.
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahalaww/sc-auth/internal/domain"
	"github.com/sahalaww/sc-auth/internal/event"
	"github.com/sahalaww/sc-auth/internal/limiter"
	"github.com/sahalaww/sc-auth/internal/repository"
	"github.com/sahalaww/sc-auth/internal/token"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
	"github.com/sahalaww/sc-auth/pkg/logger"
	"github.com/sahalaww/sc-auth/pkg/validator"
)

const bcryptCost = 12

// Canonical failure messages returned to callers. Login failures use two
// distinct messages on purpose: the enumeration tradeoff is accepted in
// exchange for clearer client errors.
const (
	msgUserNotFound = "user not found"
	msgBadLogin     = "bad username/password"
	msgTokenRevoked = "The token has revoked"
	msgTokenExpired = "The token has expired"
	msgTokenInvalid = "invalid token"
	msgLockedOut    = "too many failed login attempts, try again later"
)

// RegisterInput is the payload for account self-registration. The password
// only has to be present; its max is bcrypt's 72-byte input limit.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=3,max=128"`
	Password string `json:"password" validate:"required,max=72"`
}

// CreateUserInput is the payload for admin-side user creation. Unlike
// self-registration it can name the role to assign.
type CreateUserInput struct {
	RegisterInput
	RoleName string `json:"role_name" validate:"omitempty,max=64"`
}

// LoginInput is the payload for credential login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountService implements the account operations over the repositories,
// the token issuer, the login limiter and the event publisher.
type AccountService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokens     repository.TokenRepository
	issuer     *token.Issuer
	limiter    limiter.LoginLimiter
	events     event.Publisher
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAccountService wires an account service.
func NewAccountService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens repository.TokenRepository,
	issuer *token.Issuer,
	loginLimiter limiter.LoginLimiter,
	events event.Publisher,
	accessTTL, refreshTTL time.Duration,
	log *slog.Logger,
) *AccountService {
	return &AccountService{
		users:      users,
		roles:      roles,
		tokens:     tokens,
		issuer:     issuer,
		limiter:    loginLimiter,
		events:     events,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     log,
		now:        time.Now,
	}
}

// newPublicID returns a fresh 32-character hex public identifier.
func newPublicID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Register creates a new account with the default role and returns the
// stored user.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, CreateUserInput{RegisterInput: in})
}

// CreateUser creates an account with an explicit role. An unknown role name
// is a hard failure: accounts are never created with a dangling role.
func (s *AccountService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	return s.createUser(ctx, in)
}

func (s *AccountService) createUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	roleName := in.RoleName
	if roleName == "" {
		roleName = domain.RoleUser
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidLogin(fmt.Sprintf("role %q does not exist", roleName))
		}
		return nil, apperrors.Internal(fmt.Errorf("resolve role: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	now := s.now().UTC()
	user := &domain.User{
		PublicID:     newPublicID(),
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		RoleName:     role.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user registered",
		slog.String("public_id", user.PublicID),
		slog.String("username", user.Username),
		slog.String("role", user.RoleName),
	)

	s.events.UserRegistered(ctx, user.PublicID, user.Username, user.RoleName)

	return user, nil
}

// Login verifies credentials and mints an access and a refresh token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*domain.User, *domain.TokenPair, error) {
	if err := validator.Validate(in); err != nil {
		return nil, nil, err
	}

	locked, err := s.limiter.TooManyFailures(ctx, in.Username)
	if err != nil {
		// Limiter trouble must not take login down.
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "login limiter check failed",
			slog.String("error", err.Error()),
		)
	} else if locked {
		return nil, nil, apperrors.TooManyRequests(msgLockedOut)
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordLoginFailure(ctx, in.Username)
			return nil, nil, apperrors.InvalidLogin(msgUserNotFound)
		}
		return nil, nil, apperrors.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.recordLoginFailure(ctx, in.Username)
		return nil, nil, apperrors.InvalidLogin(msgBadLogin)
	}

	if err := s.limiter.Reset(ctx, in.Username); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "login limiter reset failed",
			slog.String("error", err.Error()),
		)
	}

	pair, err := s.mintPair(ctx, user.PublicID)
	if err != nil {
		return nil, nil, err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user logged in",
		slog.String("public_id", user.PublicID),
	)

	return user, pair, nil
}

func (s *AccountService) recordLoginFailure(ctx context.Context, username string) {
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "failed to record login failure",
			slog.String("error", err.Error()),
		)
	}
}

func (s *AccountService) mintPair(ctx context.Context, publicID string) (*domain.TokenPair, error) {
	access, err := s.issuer.Mint(ctx, domain.TokenKindAccess, publicID, s.accessTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refresh, err := s.issuer.Mint(ctx, domain.TokenKindRefresh, publicID, s.refreshTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Authenticate validates a presented token end to end: signature, expiry,
// revocation and subject resolution. The revocation check is mandatory on
// every call; there is no caching shortcut.
func (s *AccountService) Authenticate(ctx context.Context, tokenString string, wantKind domain.TokenKind) (*domain.Identity, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, apperrors.Unauthorized(msgTokenExpired)
		}
		return nil, apperrors.Unauthorized(msgTokenInvalid)
	}

	if claims.Kind != wantKind {
		return nil, apperrors.Unauthorized(msgTokenInvalid)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("revocation check: %w", err))
	}
	if revoked {
		return nil, apperrors.Unauthorized(msgTokenRevoked)
	}

	user, err := s.users.GetByPublicID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgTokenInvalid)
		}
		return nil, apperrors.Internal(err)
	}

	return &domain.Identity{
		User:      user,
		TokenID:   claims.ID,
		TokenKind: claims.Kind,
	}, nil
}

// Logout revokes the token behind the given identity. A revocation request
// that matches no record is an internal failure: the gate already admitted
// the token, so a missing record means the registry and the gate disagree.
func (s *AccountService) Logout(ctx context.Context, identity *domain.Identity) error {
	err := s.tokens.Revoke(ctx, identity.TokenID, identity.User.PublicID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Internal(fmt.Errorf("revoke token %s: no matching record", identity.TokenID))
		}
		return apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "token revoked",
		slog.String("public_id", identity.User.PublicID),
		slog.String("jti", identity.TokenID),
		slog.String("kind", string(identity.TokenKind)),
	)

	s.events.TokenRevoked(ctx, identity.User.PublicID, identity.TokenID, string(identity.TokenKind))

	return nil
}

// Refresh mints a fresh access token for the holder of a valid refresh
// token. The refresh token itself stays valid and is not rotated.
func (s *AccountService) Refresh(ctx context.Context, identity *domain.Identity) (string, error) {
	access, err := s.issuer.Mint(ctx, domain.TokenKindAccess, identity.User.PublicID, s.accessTTL)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	return access, nil
}

// GetUser returns the user with the given public identifier.
func (s *AccountService) GetUser(ctx context.Context, publicID string) (*domain.User, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", publicID)
		}
		return nil, apperrors.Internal(err)
	}

	return user, nil
}

// ListUsers returns all registered users.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return users, nil
}

// DeleteUser removes the user with the given public identifier.
func (s *AccountService) DeleteUser(ctx context.Context, publicID string) error {
	if err := s.users.Delete(ctx, publicID); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user deleted",
		slog.String("public_id", publicID),
	)

	s.events.UserDeleted(ctx, publicID)

	return nil
}
