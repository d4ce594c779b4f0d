package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnauthorized    = errors.New("unauthorized")

	// Infrastructure errors surfaced by repositories
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrUniqueViolation    = errors.New("unique constraint violation")
)

// Expected, user-facing conditions of the payment workflow. All of them
// match errors.Is against ErrInvalidState.
var (
	ErrPendingPaymentExists  = fmt.Errorf("%w: you already have a pending payment for this package", ErrInvalidState)
	ErrTransactionNotPending = fmt.Errorf("%w: transaction is not pending", ErrInvalidState)
	ErrTransactionExpired    = fmt.Errorf("%w: transaction has expired", ErrInvalidState)
)
