package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

// UserClaims is the identity carried by an access token. Downstream
// components trust these claims without re-verifying credentials.
type UserClaims struct {
	Role        model.UserRole          `json:"role"`
	Permissions []model.AdminPermission `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// AuthUseCase issues and parses the access tokens that act as the
// authenticated-identity provider for the rest of the system.
type AuthUseCase struct {
	users    *UserUseCase
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	log      *zerolog.Logger
}

func NewAuthUseCase(users *UserUseCase, userRepo repository.UserRepository, secret string, ttl time.Duration, logger *zerolog.Logger) *AuthUseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	ucLog := logger.With().Str("component", "AuthUC").Logger()
	return &AuthUseCase{
		users:    users,
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      &ucLog,
	}
}

// Register creates a regular user account.
func (uc *AuthUseCase) Register(ctx context.Context, fullName, email, password string) (*model.User, error) {
	return uc.users.Create(ctx, fullName, email, password, model.RoleUser, nil)
}

// RegisterAdmin creates an admin account with the given granular permissions.
func (uc *AuthUseCase) RegisterAdmin(ctx context.Context, fullName, email, password string, perms []model.AdminPermission) (*model.User, error) {
	return uc.users.Create(ctx, fullName, email, password, model.RoleAdmin, perms)
}

// Login verifies credentials and mints a signed access token. Lookup and
// password failures are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := uc.userRepo.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := uc.mint(u)
	if err != nil {
		return "", nil, err
	}
	uc.log.Info().Str("user_id", u.ID).Msg("user logged in")
	return token, u, nil
}

func (uc *AuthUseCase) mint(u *model.User) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Role:        u.Role,
		Permissions: u.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}

// ParseToken validates a token and returns its claims.
func (uc *AuthUseCase) ParseToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
