package repository

import (
	"context"

	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
)

// UserRepository is the port for account persistence.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	// ListPremium returns every user currently flagged premium, regardless of
	// expiry date. The sweeper filters lapsed windows client-side.
	ListPremium(ctx context.Context, tx Tx) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
