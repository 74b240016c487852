// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// BillFilter selects bills for listing and analytics. Zero-valued fields
// do not restrict the result.
type BillFilter struct {
	UserID   int64
	Category string
	// Since keeps bills dated on or after this day.
	Since models.Date
}

// BillStore persists bills together with their items and participants.
type BillStore interface {
	// CreateBill writes the bill, its items and its participants in one
	// transaction and returns the new bill ID. Nothing is written on error.
	CreateBill(ctx context.Context, bill *models.NewBill) (int64, error)

	// GetBill retrieves a bill with its items and participants.
	// Returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID int64) (*models.Bill, error)

	// BillExists reports whether a bill with the given ID exists.
	BillExists(ctx context.Context, billID int64) (bool, error)

	// AddBillItems inserts the items as one batch.
	AddBillItems(ctx context.Context, billID int64, items []models.NewBillItem) error

	// AddBillParticipants inserts the participants as one batch.
	AddBillParticipants(ctx context.Context, billID int64, participants []models.NewBillParticipant) error

	// SetParticipantPaid updates the paid flag of (billID, participantID).
	// It reports how many rows matched; zero is not an error.
	SetParticipantPaid(ctx context.Context, billID, participantID int64, isPaid bool) (int64, error)

	// ListBills returns bill summaries ordered by date, newest first.
	ListBills(ctx context.Context, filter BillFilter) ([]models.BillSummary, error)

	// ListBillsForAnalytics returns the bare bill rows matching the filter.
	ListBillsForAnalytics(ctx context.Context, filter BillFilter) ([]models.Bill, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts the user and fills in ID and CreatedAt.
	// Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser writes every field of user. Returns ErrNotFound or ErrConflict.
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser removes the user and, by cascade, everything the user owns.
	DeleteUser(ctx context.Context, id int64) error
}

// FriendStore persists a user's contacts.
type FriendStore interface {
	CreateFriend(ctx context.Context, friend *models.Friend) error
	ListFriends(ctx context.Context, userID int64) ([]models.Friend, error)
	DeleteFriend(ctx context.Context, id int64) error
}

// PaymentMethodStore persists payment methods.
type PaymentMethodStore interface {
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID int64) ([]models.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id int64) error
}

// FCMTokenStore persists push-notification registrations.
type FCMTokenStore interface {
	// FindFCMToken returns the registration for (userID, deviceID).
	// Returns ErrNotFound if there is none.
	FindFCMToken(ctx context.Context, userID int64, deviceID string) (*models.FCMToken, error)
	CreateFCMToken(ctx context.Context, token *models.FCMToken) error
	UpdateFCMToken(ctx context.Context, token *models.FCMToken) error
	ListFCMTokens(ctx context.Context, userID int64) ([]models.FCMToken, error)
	// DeleteFCMTokens removes registrations by token, or by device ID when
	// token is empty. Returns the number of rows removed.
	DeleteFCMTokens(ctx context.Context, token, deviceID string) (int64, error)
}

// Store is the full persistence surface of the service.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	BillStore
	UserStore
	FriendStore
	PaymentMethodStore
	FCMTokenStore

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
