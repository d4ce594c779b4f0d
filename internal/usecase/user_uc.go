package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

// UserUseCase manages platform accounts and their premium state view.
type UserUseCase struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *UserUseCase {
	ucLog := logger.With().Str("component", "UserUC").Logger()
	return &UserUseCase{users: users, log: &ucLog}
}

// Create registers a new account with the given role. The plaintext password
// is hashed with bcrypt before it ever reaches the repository.
func (uc *UserUseCase) Create(ctx context.Context, fullName, email, password string, role model.UserRole, perms []model.AdminPermission) (*model.User, error) {
	if password == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := uc.users.FindByEmail(ctx, repository.NoTX, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := model.NewUser("", fullName, email, string(hash))
	if err != nil {
		return nil, err
	}
	if role != "" {
		u.Role = role
	}
	if u.Role == model.RoleAdmin {
		u.Permissions = perms
	}
	if err := uc.users.Save(ctx, repository.NoTX, u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*model.User, error) {
	return uc.users.FindByID(ctx, repository.NoTX, id)
}

func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return uc.users.FindByEmail(ctx, repository.NoTX, email)
}

func (uc *UserUseCase) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	return uc.users.List(ctx, repository.NoTX, offset, limit)
}

// UpdateProfile changes the mutable profile fields. Email and password are
// excluded; nil arguments leave the current value in place.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, id string, fullName *string, phone, address *string, age *int) (*model.User, error) {
	u, err := uc.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if fullName != nil && *fullName != "" {
		u.FullName = *fullName
	}
	if phone != nil {
		u.Phone = phone
	}
	if address != nil {
		u.Address = address
	}
	if age != nil {
		u.Age = age
	}
	u.UpdatedAt = time.Now()
	if err := uc.users.Save(ctx, repository.NoTX, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidArgument
	}
	u, err := uc.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return uc.users.Save(ctx, repository.NoTX, u)
}

// PremiumStatus is the user-facing premium summary.
type PremiumStatus struct {
	IsPremium      bool
	ExpiryDate     *time.Time // nil for lifetime or non-premium
	CurrentPackage *string
	DaysRemaining  *int // nil for lifetime or non-premium
}

func (uc *UserUseCase) PremiumStatus(ctx context.Context, id string) (*PremiumStatus, error) {
	u, err := uc.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	st := &PremiumStatus{
		IsPremium:      u.IsPremium,
		ExpiryDate:     u.PremiumExpiryDate,
		CurrentPackage: u.CurrentPackage,
	}
	if u.IsPremium && u.PremiumExpiryDate != nil {
		remaining := int(time.Until(*u.PremiumExpiryDate).Hours() / 24)
		if remaining < 0 {
			remaining = 0
		}
		st.DaysRemaining = &remaining
	}
	return st, nil
}
