package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // awaiting manual bank-transfer confirmation
	PaymentStatusConfirmed PaymentStatus = "confirmed" // admin verified the transfer; terminal
	PaymentStatusExpired   PaymentStatus = "expired"   // 24h window elapsed unconfirmed; terminal
)

// PendingTTL is how long a freshly created transaction stays confirmable.
const PendingTTL = 24 * time.Hour

// PaymentTransaction is one row of the subscription ledger: a single attempt
// to buy a package via bank transfer. Amount is copied from the package price
// at creation time and never re-read.
type PaymentTransaction struct {
	ID        string // ULID, time-ordered
	UserID    string
	PackageID string
	Amount    float64
	Status    PaymentStatus

	ReferenceNumber string // unique, human-readable transfer reference
	QRCodeData      string // synthetic bank-transfer payload shown to the user
	ExpiresAt       time.Time

	// Populated only on confirmation.
	ConfirmedByID *string
	ConfirmedAt   *time.Time
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *PaymentTransaction) IsZero() bool { return t == nil || t.ID == "" }

func (t *PaymentTransaction) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Confirm transitions pending -> confirmed. Transitions are monotonic:
// confirmed and expired are never revisited.
func (t *PaymentTransaction) Confirm(adminID string, notes *string, now time.Time) {
	t.Status = PaymentStatusConfirmed
	t.ConfirmedByID = &adminID
	t.ConfirmedAt = &now
	t.Notes = notes
	t.UpdatedAt = now
}
