package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// SessionService implements login, logout and identity lookup.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Logout(ctx context.Context, authorizationHeader string) error
	Me(ctx context.Context, claims *models.IdentityClaims) (*models.AdminProfile, error)
}

type SessionConfig struct {
	TokenTTL    time.Duration
	FallbackTTL time.Duration
}

type sessionService struct {
	admins    repositories.AdminRepository
	tokens    TokenService
	blacklist TokenBlacklist
	hasher    PasswordHasher
	clock     Clock
	cfg       SessionConfig
	// compared against when the email is unknown so both paths cost one bcrypt check
	dummyHash string
}

func NewSessionService(admins repositories.AdminRepository, tokens TokenService, blacklist TokenBlacklist,
	hasher PasswordHasher, clock Clock, cfg SessionConfig) SessionService {
	if clock == nil {
		clock = time.Now
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.FallbackTTL <= 0 {
		cfg.FallbackTTL = 5 * time.Minute
	}
	dummy, err := hasher.Hash("sgsp-timing-equaliser")
	if err != nil {
		log.Printf("WARN: failed to prepare dummy password hash: %v", err)
	}
	return &sessionService{
		admins:    admins,
		tokens:    tokens,
		blacklist: blacklist,
		hasher:    hasher,
		clock:     clock,
		cfg:       cfg,
		dummyHash: dummy,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if !s.hasher.Compare(admin.PasswordHash, password) || !admin.Active {
		return nil, ErrInvalidCredentials
	}

	now := s.clock()
	token, err := s.tokens.Issue(admin.ID.String(), admin.Email, admin.Role, now, s.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	admin.LastLoginAt = &now

	return &models.LoginResponse{Token: token, Admin: admin.Profile()}, nil
}

// Logout never fails: a token it cannot verify is still revoked for the
// fallback window, and an absent token means there is nothing to do.
func (s *sessionService) Logout(ctx context.Context, authorizationHeader string) error {
	token, ok := logoutToken(authorizationHeader)
	if !ok {
		return nil
	}

	now := s.clock()
	expiresAt := now.Add(s.cfg.FallbackTTL)
	if claims, err := s.tokens.Verify(token, now); err == nil {
		expiresAt = claims.ExpiresAt
	}

	if err := s.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		log.Printf("ERROR: failed to revoke token on logout: %v", err)
	}
	return nil
}

func (s *sessionService) Me(ctx context.Context, claims *models.IdentityClaims) (*models.AdminProfile, error) {
	if claims == nil {
		return nil, ErrAuthRequired
	}

	if strings.TrimSpace(claims.Email) != "" {
		admin, err := s.admins.GetByEmail(ctx, claims.Email)
		if err == nil {
			return admin.Profile(), nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load admin: %w", err)
		}
	}

	// the account vanished after the token was issued; answer from the token
	now := s.clock()
	return &models.AdminProfile{
		ID:          claims.Subject,
		Name:        "",
		Email:       claims.Email,
		Role:        claims.Role,
		LastLoginAt: &now,
	}, nil
}

// logoutToken is lenient: anything after a "Bearer " prefix counts.
func logoutToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
