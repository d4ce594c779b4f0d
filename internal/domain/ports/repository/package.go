package repository

import (
	"context"

	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
)

// PackageRepository is the port for the subscription-tier catalog.
// Find methods only return active packages.
type PackageRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Package) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Package, error)
	FindByType(ctx context.Context, tx Tx, typ string) (*model.Package, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Package, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
