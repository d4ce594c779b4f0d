package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// AdminPermission is a granular capability granted to admin accounts.
type AdminPermission string

const (
	PermUploadVideo    AdminPermission = "upload_video"
	PermEditVideo      AdminPermission = "edit_video"
	PermDeleteVideo    AdminPermission = "delete_video"
	PermCreateCategory AdminPermission = "create_category"
	PermEditCategory   AdminPermission = "edit_category"
	PermDeleteCategory AdminPermission = "delete_category"
	PermViewUsers      AdminPermission = "view_users"
	PermEditUsers      AdminPermission = "edit_users"
	PermDeleteUsers    AdminPermission = "delete_users"
	PermViewAnalytics  AdminPermission = "view_analytics"
	PermManageSettings AdminPermission = "manage_settings"
)

// User is a platform account. Premium fields apply to regular users only;
// Permissions applies to admins only.
type User struct {
	ID           string // UUID
	FullName     string
	Email        string
	PasswordHash string
	Phone        *string
	Address      *string
	Age          *int
	Role         UserRole

	IsPremium         bool
	PremiumExpiryDate *time.Time // nil while non-premium or on a lifetime package
	CurrentPackage    *string    // package type of the last activated package

	Permissions []AdminPermission

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(id, fullName, email, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if fullName == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

func (u *User) HasPermission(p AdminPermission) bool {
	if u.Role != RoleAdmin {
		return false
	}
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// HasActivePremium reports whether the user holds premium access at the given
// instant. IsPremium=true with a nil expiry means lifetime access; a stale
// expiry date with IsPremium=false grants nothing.
func (u *User) HasActivePremium(now time.Time) bool {
	if u == nil || !u.IsPremium {
		return false
	}
	return u.PremiumExpiryDate == nil || u.PremiumExpiryDate.After(now)
}
