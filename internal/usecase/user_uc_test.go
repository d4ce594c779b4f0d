//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/usecase"
)

func TestUserUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a bcrypt password hash", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())

		u, err := uc.Create(ctx, "Alice", "alice@example.com", "s3cret", model.RoleUser, nil)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if u.ID == "" {
			t.Error("expected a generated user ID")
		}
		if u.PasswordHash == "s3cret" {
			t.Fatal("expected the password to be hashed, not stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
			t.Errorf("expected hash to verify against the original password: %v", err)
		}
		if u.Role != model.RoleUser {
			t.Errorf("expected role user, got %s", u.Role)
		}
		if u.IsPremium {
			t.Error("expected a fresh account to not be premium")
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())

		if _, err := uc.Create(ctx, "Alice", "alice@example.com", "s3cret", model.RoleUser, nil); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		_, err := uc.Create(ctx, "Imposter", "alice@example.com", "other", model.RoleUser, nil)
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())
		_, err := uc.Create(ctx, "Alice", "alice@example.com", "", model.RoleUser, nil)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("grants permissions to admins only", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())

		perms := []model.AdminPermission{model.PermUploadVideo, model.PermCreateCategory}
		admin, err := uc.Create(ctx, "Root", "root@example.com", "s3cret", model.RoleAdmin, perms)
		if err != nil {
			t.Fatalf("create admin failed: %v", err)
		}
		if !admin.HasPermission(model.PermUploadVideo) {
			t.Error("expected the admin to hold the granted permission")
		}

		user, err := uc.Create(ctx, "Alice", "alice@example.com", "s3cret", model.RoleUser, perms)
		if err != nil {
			t.Fatalf("create user failed: %v", err)
		}
		if len(user.Permissions) != 0 {
			t.Error("expected permissions to be dropped for a regular user")
		}
	})
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewMockUserRepo()
	uc := usecase.NewUserUseCase(repo, newTestLogger())

	u, err := uc.Create(ctx, "Alice", "alice@example.com", "s3cret", model.RoleUser, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	phone := "+84 555 0101"
	age := 29
	got, err := uc.UpdateProfile(ctx, u.ID, nil, &phone, nil, &age)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.FullName != "Alice" {
		t.Errorf("expected nil full name to leave the value, got %q", got.FullName)
	}
	if got.Phone == nil || *got.Phone != phone {
		t.Error("expected phone to be updated")
	}
	if got.Age == nil || *got.Age != age {
		t.Error("expected age to be updated")
	}
	if got.Address != nil {
		t.Error("expected untouched address to stay nil")
	}
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies the old password before storing a new hash", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())
		u, err := uc.Create(ctx, "Alice", "alice@example.com", "old-pass", model.RoleUser, nil)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if err := uc.ChangePassword(ctx, u.ID, "old-pass", "new-pass"); err != nil {
			t.Fatalf("expected change to succeed, got: %v", err)
		}
		after, _ := uc.Get(ctx, u.ID)
		if err := bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte("new-pass")); err != nil {
			t.Errorf("expected the new password to verify: %v", err)
		}
	})

	t.Run("rejects a wrong old password", func(t *testing.T) {
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger())
		u, err := uc.Create(ctx, "Alice", "alice@example.com", "old-pass", model.RoleUser, nil)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		err = uc.ChangePassword(ctx, u.ID, "guess", "new-pass")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserUseCase_PremiumStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMockUserRepo()
	uc := usecase.NewUserUseCase(repo, newTestLogger())

	u, err := uc.Create(ctx, "Alice", "alice@example.com", "s3cret", model.RoleUser, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	t.Run("non-premium user", func(t *testing.T) {
		st, err := uc.PremiumStatus(ctx, u.ID)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if st.IsPremium || st.DaysRemaining != nil {
			t.Error("expected a non-premium status")
		}
	})

	t.Run("time-boxed premium reports days remaining", func(t *testing.T) {
		expiry := time.Now().AddDate(0, 0, 10).Add(time.Hour)
		pkgType := model.PackageTypeMonthly
		u.IsPremium = true
		u.PremiumExpiryDate = &expiry
		u.CurrentPackage = &pkgType
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("save user: %v", err)
		}

		st, err := uc.PremiumStatus(ctx, u.ID)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !st.IsPremium {
			t.Fatal("expected premium status")
		}
		if st.DaysRemaining == nil || *st.DaysRemaining != 10 {
			t.Errorf("expected 10 days remaining, got %v", st.DaysRemaining)
		}
		if st.CurrentPackage == nil || *st.CurrentPackage != pkgType {
			t.Error("expected the current package type to be reported")
		}
	})

	t.Run("lifetime premium has no expiry", func(t *testing.T) {
		u.IsPremium = true
		u.PremiumExpiryDate = nil
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("save user: %v", err)
		}

		st, err := uc.PremiumStatus(ctx, u.ID)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !st.IsPremium {
			t.Fatal("expected premium status")
		}
		if st.ExpiryDate != nil || st.DaysRemaining != nil {
			t.Error("expected nil expiry and days remaining for lifetime")
		}
	})
}
