package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "all"

// BillService creates and reads bills together with their items and
// participants.
type BillService struct {
	store  storage.BillStore
	logger *slog.Logger
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.BillStore, logger *slog.Logger) *BillService {
	return &BillService{store: store, logger: orDefault(logger)}
}

// CreateBill validates the bill and stores it with its items and
// participants as one unit. The total amount is stored as given.
func (s *BillService) CreateBill(ctx context.Context, bill *models.NewBill) (int64, error) {
	s.logger.Info("CreateBill request received", "user_id", bill.UserID, "items", len(bill.Items), "participants", len(bill.Participants))

	if err := validateNewBill(bill); err != nil {
		return 0, err
	}

	id, err := s.store.CreateBill(ctx, bill)
	if err != nil {
		s.logger.Error("CreateBill failed", "user_id", bill.UserID, "error", err)
		return 0, err
	}

	s.logger.Info("CreateBill successful", "bill_id", id)
	return id, nil
}

// AddItems appends items to an existing bill.
func (s *BillService) AddItems(ctx context.Context, billID int64, items []models.NewBillItem) error {
	s.logger.Info("AddItems request received", "bill_id", billID, "count", len(items))

	if billID <= 0 || len(items) == 0 {
		return invalid("Bill ID and items are required")
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if err := s.requireBill(ctx, billID); err != nil {
		return err
	}

	if err := s.store.AddBillItems(ctx, billID, items); err != nil {
		s.logger.Error("AddItems failed", "bill_id", billID, "error", err)
		return err
	}
	return nil
}

// AddParticipants appends participant shares to an existing bill.
func (s *BillService) AddParticipants(ctx context.Context, billID int64, participants []models.NewBillParticipant) error {
	s.logger.Info("AddParticipants request received", "bill_id", billID, "count", len(participants))

	if billID <= 0 || len(participants) == 0 {
		return invalid("Bill ID and participants are required")
	}
	if err := validateParticipants(participants); err != nil {
		return err
	}
	if err := s.requireBill(ctx, billID); err != nil {
		return err
	}

	if err := s.store.AddBillParticipants(ctx, billID, participants); err != nil {
		s.logger.Error("AddParticipants failed", "bill_id", billID, "error", err)
		return err
	}
	return nil
}

// UpdatePaymentStatus sets the paid flag of one participant share. A pair
// that matches no row is not an error.
func (s *BillService) UpdatePaymentStatus(ctx context.Context, billID, participantID int64, isPaid bool) error {
	if billID <= 0 || participantID <= 0 {
		return invalid("Bill ID and participant ID are required")
	}

	n, err := s.store.SetParticipantPaid(ctx, billID, participantID, isPaid)
	if err != nil {
		s.logger.Error("UpdatePaymentStatus failed", "bill_id", billID, "participant_id", participantID, "error", err)
		return err
	}
	if n == 0 {
		s.logger.Debug("UpdatePaymentStatus matched no participant", "bill_id", billID, "participant_id", participantID)
	}
	return nil
}

// ListBills returns the user's bills, newest first. An empty category or
// "all" returns every category.
func (s *BillService) ListBills(ctx context.Context, userID int64, category string) ([]models.BillSummary, error) {
	if userID <= 0 {
		return nil, invalid("User ID is required")
	}

	category = strings.TrimSpace(category)
	if strings.EqualFold(category, AllCategories) {
		category = ""
	}

	bills, err := s.store.ListBills(ctx, storage.BillFilter{UserID: userID, Category: category})
	if err != nil {
		s.logger.Error("ListBills failed", "user_id", userID, "error", err)
		return nil, err
	}
	return bills, nil
}

// GetBill returns a bill with its items and participants.
func (s *BillService) GetBill(ctx context.Context, billID int64) (*models.Bill, error) {
	if billID <= 0 {
		return nil, invalid("Invalid bill ID")
	}

	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		s.logger.Warn("GetBill failed", "bill_id", billID, "error", err)
		return nil, err
	}
	return bill, nil
}

func (s *BillService) requireBill(ctx context.Context, billID int64) error {
	exists, err := s.store.BillExists(ctx, billID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bill %d: %w", billID, storage.ErrNotFound)
	}
	return nil
}

func validateNewBill(bill *models.NewBill) error {
	if bill.UserID <= 0 ||
		strings.TrimSpace(bill.Title) == "" ||
		strings.TrimSpace(bill.Category) == "" ||
		bill.TotalAmount.IsZero() ||
		bill.Date.IsZero() {
		return invalid("All fields (userId, title, category, totalAmount, date) are required")
	}
	if err := validateItems(bill.Items); err != nil {
		return err
	}
	return validateParticipants(bill.Participants)
}

func validateItems(items []models.NewBillItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.ItemName) == "" {
			return invalid("items[%d]: itemName is required", i)
		}
	}
	return nil
}

func validateParticipants(participants []models.NewBillParticipant) error {
	for i, p := range participants {
		if p.ParticipantID <= 0 {
			return invalid("participants[%d]: participantId is required", i)
		}
	}
	return nil
}
