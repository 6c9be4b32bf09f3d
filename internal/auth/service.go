// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID                string
	Email             string
	FirstName         string
	LastName          string
	PasswordHash      string
	Role              string
	CustomURL         string
	IsProfileComplete bool
	RefreshTokenHash  *string
	CreatedAt         time.Time
}

type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error
}

// TokenBlacklist revokes access tokens before they expire. core.Redis
// satisfies it.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	blacklist    TokenBlacklist
	logger       *slog.Logger
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	blacklist TokenBlacklist,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		blacklist:    blacklist,
		logger:       logger,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	if err := s.userProvider.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "update last login failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// match the hash in the user's refresh slot; the slot is then overwritten so
// the old token stops working.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*AuthResponse, error) {
	userID, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.RefreshTokenHash == nil ||
		!core.CompareTokenHash(refreshToken, *user.RefreshTokenHash) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}

	return s.issueTokens(ctx, user)
}

// Logout empties the refresh slot and blacklists the access token that made
// the request for the rest of its lifetime.
func (s *Service) Logout(
	ctx context.Context,
	principal middleware.Principal,
) error {
	if err := s.userProvider.SetRefreshTokenHash(
		ctx,
		principal.UserID,
		nil,
	); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	if s.blacklist == nil || principal.TokenID == "" {
		return nil
	}

	if err := s.blacklist.Blacklist(
		ctx,
		principal.TokenID,
		principal.ExpiresAt,
	); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		currentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.userProvider.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	return nil
}

// RevokeSessions clears the user's refresh slot. Access tokens already
// issued stay valid until they expire.
func (s *Service) RevokeSessions(ctx context.Context, userID string) error {
	if _, err := s.userProvider.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userProvider.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "sessions revoked", "user_id", userID)
	return nil
}

// VerifyAccessToken validates the JWT and rejects tokens revoked by logout.
// A blacklist outage fails open so Redis trouble cannot lock everyone out.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.blacklist == nil || claims.TokenID == "" {
		return claims, nil
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.TokenID)
	if err != nil {
		s.logger.WarnContext(ctx, "token blacklist unavailable",
			"error", err,
		)
		return claims, nil
	}

	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) issueTokens(
	ctx context.Context,
	user *UserInfo,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	hash := core.HashToken(refresh.Token)
	if err := s.userProvider.SetRefreshTokenHash(
		ctx,
		user.ID,
		&hash,
	); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwt.AccessTokenTTL().Seconds()),
		ExpiresAt:    access.ExpiresAt,
		User:         toUserResponse(user),
	}, nil
}
