package repository

import (
	"context"

	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
)

// PaymentRepository is the port for the payment-transaction ledger.
type PaymentRepository interface {
	// Save inserts or updates one ledger row. Inserting a duplicate pending
	// (user, package) pair or a duplicate reference number surfaces
	// domain.ErrUniqueViolation.
	Save(ctx context.Context, tx Tx, t *model.PaymentTransaction) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentTransaction, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.PaymentTransaction, error)
	// FindPendingByUserAndPackage returns the pending transaction for the
	// exact (user, package) pair, or domain.ErrNotFound.
	FindPendingByUserAndPackage(ctx context.Context, tx Tx, userID, packageID string) (*model.PaymentTransaction, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.PaymentTransaction, error)
	ListPending(ctx context.Context, tx Tx) ([]*model.PaymentTransaction, error)
}
