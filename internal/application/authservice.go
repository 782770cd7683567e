package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Errors returned by AuthService. Handlers map these to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a bad username/password combination.
	// Deliberately the same error for unknown username and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a malformed, expired or wrongly-typed token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked indicates a refresh token that was already used or
	// explicitly logged out.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUsernameTaken indicates a registration with an existing username.
	ErrUsernameTaken = errors.New("username taken")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is an access/refresh token pair issued on login and refresh.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// tokenClaims extends the registered JWT claims with the token type, so a
// refresh token can never be presented as an access token or vice versa.
type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// AuthService handles registration, login and the stateless-JWT-with-
// blacklist session model. Access tokens are short-lived and never revoked;
// refresh tokens rotate on use and land on the blacklist.
type AuthService struct {
	accounts   driven.AccountStore
	tokens     driven.TokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger

	now func() time.Time // Injectable for tests.
}

// NewAuthService creates a new AuthService with the required dependencies.
func NewAuthService(accounts driven.AccountStore, tokens driven.TokenStore, secret string, accessTTL, refreshTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a regular (non-superuser) account. Username and password
// must be non-empty.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.Account, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := model.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsSuperuser:  false,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, driven.ErrAccountAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("account registered", "username", username)
	return &account, nil
}

// Login verifies the credentials, records the login time and issues a fresh
// token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logger.Warn("failed to record last login", "username", username, "error", err)
	}

	return s.issuePair(account.ID)
}

// Refresh rotates a refresh token: the presented token is validated, checked
// against the blacklist, revoked, and a new pair is issued. A replayed
// refresh token returns ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	return s.issuePair(claims.Subject)
}

// Logout blacklists the presented refresh token. Logging out an already
// revoked token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate validates an access token and loads the account it belongs
// to. Returns ErrInvalidToken when the token is bad or the account is gone.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.Account, error) {
	claims, err := s.parseToken(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidToken
	}

	return account, nil
}

// PurgeExpiredTokens drops blacklist entries whose tokens have expired.
// Meant to run periodically from the server.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.PurgeExpired(ctx, s.now().UTC())
}

func (s *AuthService) issuePair(accountID string) (*TokenPair, error) {
	now := s.now().UTC()
	accessExpiry := now.Add(s.accessTTL)

	access, err := s.signToken(accountID, tokenTypeAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.signToken(accountID, tokenTypeRefresh, now, now.Add(s.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: accessExpiry,
	}, nil
}

func (s *AuthService) signToken(accountID, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parseToken(tokenString, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
