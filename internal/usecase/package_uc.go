package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

// PackageUseCase reads the subscription-tier catalog and owns its one-time
// bootstrap seeding.
type PackageUseCase struct {
	repo repository.PackageRepository
	log  *zerolog.Logger
}

func NewPackageUseCase(repo repository.PackageRepository, logger *zerolog.Logger) *PackageUseCase {
	ucLog := logger.With().Str("component", "PackageUC").Logger()
	return &PackageUseCase{repo: repo, log: &ucLog}
}

// List returns all active packages.
func (uc *PackageUseCase) List(ctx context.Context) ([]*model.Package, error) {
	return uc.repo.ListActive(ctx, repository.NoTX)
}

// Get returns an active package by id.
func (uc *PackageUseCase) Get(ctx context.Context, id string) (*model.Package, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

// GetByType returns an active package by its unique type tag.
func (uc *PackageUseCase) GetByType(ctx context.Context, typ string) (*model.Package, error) {
	return uc.repo.FindByType(ctx, repository.NoTX, typ)
}

type seedPackage struct {
	Name         string
	Type         string
	Description  string
	Price        float64
	DurationDays *int
}

func days(n int) *int { return &n }

var defaultPackages = []seedPackage{
	{
		Name:         "Monthly Premium",
		Type:         model.PackageTypeMonthly,
		Description:  "Access to all premium courses and features for 1 month. Perfect for trying out premium content.",
		Price:        9.99,
		DurationDays: days(30),
	},
	{
		Name:         "6-Month Premium",
		Type:         model.PackageTypeSemiAnnual,
		Description:  "Access to all premium courses and features for 6 months. Great value with 20% savings compared to monthly.",
		Price:        47.99,
		DurationDays: days(180),
	},
	{
		Name:         "Annual Premium",
		Type:         model.PackageTypeAnnual,
		Description:  "Access to all premium courses and features for 1 year. Best value with 40% savings and priority support.",
		Price:        71.99,
		DurationDays: days(365),
	},
	{
		Name:         "Lifetime Premium",
		Type:         model.PackageTypeLifetime,
		Description:  "Lifetime access to all premium courses and features. One-time payment for unlimited learning.",
		Price:        199.99,
		DurationDays: nil,
	},
}

// SeedDefaults inserts the default tiers when the catalog is empty and
// returns how many were created. Idempotent: a non-empty catalog is left
// untouched, so it is safe to run on every deploy.
func (uc *PackageUseCase) SeedDefaults(ctx context.Context) (int, error) {
	count, err := uc.repo.Count(ctx, repository.NoTX)
	if err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, s := range defaultPackages {
		p, err := model.NewPackage("", s.Name, s.Type, s.Description, s.Price, s.DurationDays)
		if err != nil {
			return 0, fmt.Errorf("build package %q: %w", s.Type, err)
		}
		if err := uc.repo.Save(ctx, repository.NoTX, p); err != nil {
			return 0, fmt.Errorf("save package %q: %w", s.Type, err)
		}
	}
	uc.log.Info().Int("count", len(defaultPackages)).Msg("default subscription packages seeded")
	return len(defaultPackages), nil
}
