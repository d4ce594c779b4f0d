package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
)

// Well-known package type tags. The type column is unique, so these double as
// catalog lookup keys.
const (
	PackageTypeMonthly    = "monthly"
	PackageTypeSemiAnnual = "semi_annual"
	PackageTypeAnnual     = "annual"
	PackageTypeLifetime   = "lifetime"
)

// Package is a purchasable subscription tier. Rows are seeded once at
// bootstrap and treated as read-only by the payment workflow.
type Package struct {
	ID           string // UUID
	Name         string
	Type         string // unique tag, e.g. "monthly"
	Description  string
	Price        float64
	DurationDays *int // nil means lifetime access
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Package) IsZero() bool     { return p == nil || p.ID == "" }
func (p *Package) IsLifetime() bool { return p.DurationDays == nil }

// NewPackage validates and constructs a catalog entry.
func NewPackage(id, name, typ, description string, price float64, durationDays *int) (*Package, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || typ == "" || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if durationDays != nil && *durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Package{
		ID:           id,
		Name:         name,
		Type:         typ,
		Description:  description,
		Price:        price,
		DurationDays: durationDays,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
