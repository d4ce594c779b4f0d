package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
	"github.com/dungpasoftware/van-edu-be/internal/infra/metrics"
)

// Locker serializes subscription creation per (user, package) key so the
// duplicate-pending check and insert cannot interleave across processes.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CreateSubscription opens a pending ledger row for the given user and
	// package and returns it with reference number and QR payload set.
	CreateSubscription(ctx context.Context, userID, packageID string) (*model.PaymentTransaction, error)
	// ConfirmPayment transitions a pending transaction to confirmed and
	// activates premium on the owning user.
	ConfirmPayment(ctx context.Context, transactionID, adminID string, notes *string) (*model.PaymentTransaction, error)
	ListUserPayments(ctx context.Context, userID string) ([]*model.PaymentTransaction, error)
	ListPendingPayments(ctx context.Context) ([]*model.PaymentTransaction, error)
	// ExpireOldTransactions flips overdue pending rows to expired and returns
	// how many were flipped. Safe to re-run at any cadence.
	ExpireOldTransactions(ctx context.Context) (int, error)
	// ExpirePremiumUsers clears the premium flag of users whose window has
	// lapsed and returns how many were cleared. Lifetime users are never
	// touched.
	ExpirePremiumUsers(ctx context.Context) (int, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	packages repository.PackageRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	locker   Locker
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	packages repository.PackageRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	locker Locker,
	logger *zerolog.Logger,
) *paymentUC {
	ucLog := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		payments: payments,
		packages: packages,
		users:    users,
		tm:       tm,
		locker:   locker,
		log:      &ucLog,
	}
}

// saveAttempts bounds reference-number regeneration on unique collisions.
const saveAttempts = 3

func (u *paymentUC) CreateSubscription(ctx context.Context, userID, packageID string) (*model.PaymentTransaction, error) {
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	pkg, err := u.packages.FindByID(ctx, repository.NoTX, packageID)
	if err != nil {
		return nil, fmt.Errorf("find package: %w", err)
	}

	// Serialize the check-then-insert per (user, package). The partial unique
	// index on pending rows is the backstop if the lock is unavailable.
	if u.locker != nil {
		key := "payment:create:" + user.ID + ":" + pkg.ID
		token, lockErr := u.locker.TryLock(ctx, key, 10*time.Second)
		if lockErr != nil {
			u.log.Warn().Err(lockErr).Str("user_id", user.ID).Msg("create lock unavailable, relying on unique index")
		} else {
			defer func() { _ = u.locker.Unlock(ctx, key, token) }()
		}
	}

	existing, err := u.payments.FindPendingByUserAndPackage(ctx, repository.NoTX, user.ID, pkg.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if !existing.IsZero() {
		return nil, domain.ErrPendingPaymentExists
	}

	now := time.Now()
	var t *model.PaymentTransaction
	for attempt := 0; attempt < saveAttempts; attempt++ {
		ref := newReferenceNumber(now)
		t = &model.PaymentTransaction{
			ID:              newTransactionID(now),
			UserID:          user.ID,
			PackageID:       pkg.ID,
			Amount:          pkg.Price,
			Status:          model.PaymentStatusPending,
			ReferenceNumber: ref,
			QRCodeData:      buildQRCodeData(pkg.Price, ref),
			ExpiresAt:       now.Add(model.PendingTTL),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		err = u.payments.Save(ctx, repository.NoTX, t)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrPendingPaymentExists) {
			// lost the race to a concurrent create for the same pair
			return nil, domain.ErrPendingPaymentExists
		}
		if errors.Is(err, domain.ErrUniqueViolation) {
			// reference collision, regenerate and retry
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().
		Str("transaction_id", t.ID).
		Str("user_id", user.ID).
		Str("package", pkg.Type).
		Float64("amount", t.Amount).
		Msg("subscription payment created")
	return t, nil
}

func (u *paymentUC) ConfirmPayment(ctx context.Context, transactionID, adminID string, notes *string) (*model.PaymentTransaction, error) {
	var confirmed *model.PaymentTransaction
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		t, err := u.payments.FindByID(ctx, tx, transactionID)
		if err != nil {
			return fmt.Errorf("find transaction: %w", err)
		}
		if t.Status != model.PaymentStatusPending {
			return domain.ErrTransactionNotPending
		}
		now := time.Now()
		if t.IsExpired(now) {
			return domain.ErrTransactionExpired
		}

		pkg, err := u.packages.FindByID(ctx, tx, t.PackageID)
		if err != nil {
			return fmt.Errorf("find package: %w", err)
		}

		t.Confirm(adminID, notes, now)
		if err := u.payments.Save(ctx, tx, t); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		// Activation is best-effort: a missing user leaves the transaction
		// confirmed without premium.
		user, err := u.users.FindByID(ctx, tx, t.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().
				Str("transaction_id", t.ID).
				Str("user_id", t.UserID).
				Msg("confirmed transaction for missing user, premium not activated")
			confirmed = t
			return nil
		}
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		activateUserPremium(user, pkg, now)
		if err := u.users.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		confirmed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusConfirmed))
	u.log.Info().
		Str("transaction_id", confirmed.ID).
		Str("admin_id", adminID).
		Msg("payment confirmed")
	return confirmed, nil
}

func (u *paymentUC) ListUserPayments(ctx context.Context, userID string) ([]*model.PaymentTransaction, error) {
	return u.payments.ListByUser(ctx, repository.NoTX, userID)
}

func (u *paymentUC) ListPendingPayments(ctx context.Context) ([]*model.PaymentTransaction, error) {
	return u.payments.ListPending(ctx, repository.NoTX)
}

func (u *paymentUC) ExpireOldTransactions(ctx context.Context) (int, error) {
	pending, err := u.payments.ListPending(ctx, repository.NoTX)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	expired := 0
	for _, t := range pending {
		if !t.IsExpired(now) {
			continue
		}
		t.Status = model.PaymentStatusExpired
		t.UpdatedAt = now
		if err := u.payments.Save(ctx, repository.NoTX, t); err != nil {
			u.log.Error().Err(err).Str("transaction_id", t.ID).Msg("failed to expire transaction")
			continue
		}
		metrics.IncPayment(string(model.PaymentStatusExpired))
		expired++
	}
	if expired > 0 {
		u.log.Info().Int("count", expired).Msg("expired stale payment transactions")
	}
	return expired, nil
}

func (u *paymentUC) ExpirePremiumUsers(ctx context.Context) (int, error) {
	premium, err := u.users.ListPremium(ctx, repository.NoTX)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	lapsed := 0
	for _, usr := range premium {
		// Lifetime users carry a nil expiry date and are never selected.
		if usr.PremiumExpiryDate == nil || now.Before(*usr.PremiumExpiryDate) {
			continue
		}
		usr.IsPremium = false
		usr.PremiumExpiryDate = nil
		usr.CurrentPackage = nil
		usr.UpdatedAt = now
		if err := u.users.Save(ctx, repository.NoTX, usr); err != nil {
			u.log.Error().Err(err).Str("user_id", usr.ID).Msg("failed to clear lapsed premium")
			continue
		}
		lapsed++
	}
	if lapsed > 0 {
		u.log.Info().Int("count", lapsed).Msg("cleared lapsed premium users")
	}
	return lapsed, nil
}

// activateUserPremium applies a confirmed package to the user. Overlapping
// windows extend from the current expiry rather than resetting to now;
// lifetime packages discard any prior time-boxed expiry.
func activateUserPremium(u *model.User, pkg *model.Package, now time.Time) {
	u.IsPremium = true
	pkgType := pkg.Type
	u.CurrentPackage = &pkgType

	if pkg.DurationDays != nil {
		base := now
		if u.PremiumExpiryDate != nil && u.PremiumExpiryDate.After(now) {
			base = *u.PremiumExpiryDate
		}
		expiry := base.AddDate(0, 0, *pkg.DurationDays)
		u.PremiumExpiryDate = &expiry
	} else {
		u.PremiumExpiryDate = nil
	}
	u.UpdatedAt = now
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newTransactionID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newReferenceNumber builds "PAY-<ms timestamp>-<6 random base-36 chars>".
// Uniqueness is probabilistic; the ledger's unique column plus bounded
// regeneration in CreateSubscription handles collisions.
func newReferenceNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return fmt.Sprintf("PAY-%d-%s", now.UnixMilli(), suffix)
}

type qrPayload struct {
	Type      string  `json:"type"`
	Bank      string  `json:"bank"`
	Account   string  `json:"account"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Message   string  `json:"message"`
}

// buildQRCodeData returns the synthetic bank-transfer payload. No gateway is
// called; an admin matches the reference against the bank statement by hand.
func buildQRCodeData(amount float64, reference string) string {
	b, _ := json.Marshal(qrPayload{
		Type:      "bank_transfer",
		Bank:      "Your Bank Name",
		Account:   "1234567890",
		Amount:    amount,
		Reference: reference,
		Message:   "Payment for premium subscription - " + reference,
	})
	return string(b)
}
