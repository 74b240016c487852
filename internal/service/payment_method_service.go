package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// PaymentMethodService manages the accounts users are paid through.
type PaymentMethodService struct {
	store  storage.PaymentMethodStore
	logger *slog.Logger
}

func NewPaymentMethodService(store storage.PaymentMethodStore, logger *slog.Logger) *PaymentMethodService {
	return &PaymentMethodService{store: store, logger: orDefault(logger)}
}

func (s *PaymentMethodService) List(ctx context.Context, userID int64) ([]models.PaymentMethod, error) {
	if userID <= 0 {
		return nil, invalid("User ID is required")
	}
	return s.store.ListPaymentMethods(ctx, userID)
}

func (s *PaymentMethodService) Get(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	if id <= 0 {
		return nil, invalid("Invalid payment method ID")
	}
	return s.store.GetPaymentMethod(ctx, id)
}

// Create stores a payment method and returns it with the owner's name.
func (s *PaymentMethodService) Create(ctx context.Context, userID int64, methodName, accountNumber string) (*models.PaymentMethod, error) {
	if userID <= 0 || strings.TrimSpace(methodName) == "" || strings.TrimSpace(accountNumber) == "" {
		return nil, invalid("User ID, method name, and account number are required")
	}

	method := &models.PaymentMethod{
		UserID:        userID,
		MethodName:    methodName,
		AccountNumber: accountNumber,
	}
	if err := s.store.CreatePaymentMethod(ctx, method); err != nil {
		s.logger.Error("CreatePaymentMethod failed", "user_id", userID, "error", err)
		return nil, err
	}
	return s.store.GetPaymentMethod(ctx, method.ID)
}

// Update replaces the non-empty fields. Empty strings keep the stored value.
func (s *PaymentMethodService) Update(ctx context.Context, id int64, methodName, accountNumber string) (*models.PaymentMethod, error) {
	method, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if methodName != "" {
		method.MethodName = methodName
	}
	if accountNumber != "" {
		method.AccountNumber = accountNumber
	}

	if err := s.store.UpdatePaymentMethod(ctx, method); err != nil {
		s.logger.Error("UpdatePaymentMethod failed", "id", id, "error", err)
		return nil, err
	}
	return method, nil
}

func (s *PaymentMethodService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("Invalid payment method ID")
	}
	return s.store.DeletePaymentMethod(ctx, id)
}
