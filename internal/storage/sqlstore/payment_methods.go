package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// paymentMethodSelect joins the owner's name onto each method.
func (s *Store) paymentMethodSelect() squirrel.SelectBuilder {
	return s.sb.
		Select("pm.id", "pm.user_id", "pm.method_name", "pm.account_number", "pm.created_at", "u.name AS user_name").
		From("payment_methods pm").
		LeftJoin("users u ON u.id = pm.user_id")
}

// CreatePaymentMethod inserts a payment method and fills in ID and CreatedAt.
func (s *Store) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	if method.CreatedAt == 0 {
		method.CreatedAt = s.timestamp()
	}

	query, args, err := s.sb.Insert("payment_methods").
		Columns("user_id", "method_name", "account_number", "created_at").
		Values(method.UserID, method.MethodName, method.AccountNumber, method.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build payment method insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&method.ID); err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// GetPaymentMethod retrieves a payment method with its owner's name.
func (s *Store) GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	query, args, err := s.paymentMethodSelect().Where(squirrel.Eq{"pm.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build payment method query: %w", err)
	}

	method := &models.PaymentMethod{}
	err = s.db.GetContext(ctx, method, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment method %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return method, nil
}

// ListPaymentMethods returns the user's payment methods.
func (s *Store) ListPaymentMethods(ctx context.Context, userID int64) ([]models.PaymentMethod, error) {
	query, args, err := s.paymentMethodSelect().
		Where(squirrel.Eq{"pm.user_id": userID}).
		OrderBy("pm.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build payment method list query: %w", err)
	}

	methods := []models.PaymentMethod{}
	if err := s.db.SelectContext(ctx, &methods, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// UpdatePaymentMethod overwrites the name and account of a payment method.
func (s *Store) UpdatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	query, args, err := s.sb.Update("payment_methods").
		Set("method_name", method.MethodName).
		Set("account_number", method.AccountNumber).
		Where(squirrel.Eq{"id": method.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build payment method update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return requireAffected(res, "payment method")
}

// DeletePaymentMethod removes a payment method by ID.
func (s *Store) DeletePaymentMethod(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "payment_methods", id)
}
