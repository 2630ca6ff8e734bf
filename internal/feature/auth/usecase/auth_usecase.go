package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fundops_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength is the minimum accepted password length.
	minPasswordLength = 8

	// maxSessionsPerUser caps concurrent refresh sessions; the oldest is
	// evicted when the cap is reached.
	maxSessionsPerUser = 5

	// defaultSessionTTL is used when no session lifetime is configured.
	defaultSessionTTL = 30 * 24 * time.Hour
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists for duplicates.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves the user matching the given email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves the user matching the given ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenGenerator signs access tokens for authenticated users.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform/jwt).
type TokenGenerator interface {
	// GenerateToken creates a signed access token carrying the user's identity and role.
	GenerateToken(userID uint, email string, role entity.Role) (string, error)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// authUsecase implements the authentication business logic.
type authUsecase struct {
	users      UserRepository
	sessions   SessionRepository
	tokens     TokenGenerator
	sessionTTL time.Duration
}

// NewAuthUsecase creates a new authUsecase. A non-positive sessionTTL falls
// back to 30 days.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator, sessionTTL time.Duration) *authUsecase {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &authUsecase{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// validatePassword checks that the password meets the security requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Signup registers a new user with a hashed password. New accounts always
// start as viewers; role escalation is an administrative database operation.
func (u *authUsecase) Signup(ctx context.Context, email, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: email, Password: string(hashed), Role: entity.RoleViewer}
	return u.users.Create(ctx, user)
}

// Login authenticates a user and returns an access/refresh token pair.
// A bcrypt comparison runs even when the user does not exist so response
// timing does not reveal account existence.
func (u *authUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// Dummy hash keeps bcrypt.CompareHashAndPassword on the failure path too.
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := u.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refresh, err := u.createSession(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh session: the presented session is revoked and a
// new pair is issued. Invalid, revoked, and expired sessions all fail.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error) {
	if len(refreshToken) != sessionTokenLength {
		return nil, ErrInvalidRefreshToken
	}

	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}

	access, err := u.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refresh, err := u.createSession(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the presented refresh session. Unknown tokens succeed so
// logout stays idempotent.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if len(refreshToken) != sessionTokenLength {
		return nil
	}
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && err != ErrSessionNotFound {
		return err
	}
	return nil
}

// sessionTokenLength is the hex length of a refresh token (32 random bytes).
const sessionTokenLength = 64

// createSession persists a new refresh session, evicting the oldest one when
// the per-user cap is reached.
func (u *authUsecase) createSession(ctx context.Context, userID uint, userAgent, ipAddress string) (string, error) {
	count, err := u.sessions.CountByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to count sessions: %w", err)
	}
	if count >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
			return "", fmt.Errorf("failed to evict oldest session: %w", err)
		}
	}

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &entity.Session{
		ID:        token,
		UserID:    userID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// newSessionToken returns 32 random bytes hex-encoded.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
