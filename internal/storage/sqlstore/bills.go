package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// CreateBill persists a bill with its items and participants in a single
// transaction: bill, then items, then participants. Any failure rolls the
// whole write back, including the bill row.
func (s *Store) CreateBill(ctx context.Context, bill *models.NewBill) (int64, error) {
	now := s.timestamp()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := s.sb.Insert("bills").
		Columns("user_id", "title", "category", "total_amount", "date", "created_at").
		Values(bill.UserID, bill.Title, bill.Category, bill.TotalAmount, bill.Date, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build bill insert: %w", err)
	}

	var billID int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&billID); err != nil {
		return 0, fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := s.insertItems(ctx, tx, billID, bill.Items, now); err != nil {
		return 0, err
	}
	if err := s.insertParticipants(ctx, tx, billID, bill.Participants, now); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return billID, nil
}

// AddBillItems appends items to an existing bill as one batch statement.
func (s *Store) AddBillItems(ctx context.Context, billID int64, items []models.NewBillItem) error {
	return s.insertItems(ctx, s.db, billID, items, s.timestamp())
}

// AddBillParticipants appends participants to an existing bill as one batch
// statement.
func (s *Store) AddBillParticipants(ctx context.Context, billID int64, participants []models.NewBillParticipant) error {
	return s.insertParticipants(ctx, s.db, billID, participants, s.timestamp())
}

func (s *Store) insertItems(ctx context.Context, exec sqlx.ExecerContext, billID int64, items []models.NewBillItem, now int64) error {
	if len(items) == 0 {
		return nil
	}

	insert := s.sb.Insert("bill_items").Columns("bill_id", "item_name", "price", "created_at")
	for _, item := range items {
		insert = insert.Values(billID, item.ItemName, item.Price, now)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item insert: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}
	return nil
}

func (s *Store) insertParticipants(ctx context.Context, exec sqlx.ExecerContext, billID int64, participants []models.NewBillParticipant, now int64) error {
	if len(participants) == 0 {
		return nil
	}

	insert := s.sb.Insert("bill_participants").Columns("bill_id", "participant_id", "amount", "is_paid", "created_at")
	for _, p := range participants {
		insert = insert.Values(billID, p.ParticipantID, p.Amount, p.IsPaid, now)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build participant insert: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert participants: %w", err)
	}
	return nil
}

// BillExists reports whether the bill is present.
func (s *Store) BillExists(ctx context.Context, billID int64) (bool, error) {
	query, args, err := s.sb.Select("1").From("bills").Where("id = ?", billID).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build bill lookup: %w", err)
	}

	var one int
	err = s.db.QueryRowxContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bill existence: %w", err)
	}
	return true, nil
}

// SetParticipantPaid flips the paid flag of one participant row.
func (s *Store) SetParticipantPaid(ctx context.Context, billID, participantID int64, isPaid bool) (int64, error) {
	query, args, err := s.sb.Update("bill_participants").
		Set("is_paid", isPaid).
		Where("bill_id = ?", billID).
		Where("participant_id = ?", participantID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build payment update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// GetBill retrieves a bill by ID, including all items and participants.
// Items and participants are read by two independent queries, not inside
// one snapshot with the bill row.
func (s *Store) GetBill(ctx context.Context, billID int64) (*models.Bill, error) {
	query, args, err := s.sb.
		Select("id", "user_id", "title", "category", "total_amount", "date", "created_at").
		From("bills").
		Where("id = ?", billID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bill query: %w", err)
	}

	bill := &models.Bill{}
	err = s.db.GetContext(ctx, bill, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %d: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	itemsQuery, itemsArgs, err := s.sb.
		Select("id", "bill_id", "item_name", "price", "created_at").
		From("bill_items").
		Where("bill_id = ?", billID).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	participantsQuery, participantsArgs, err := s.sb.
		Select("id", "bill_id", "participant_id", "amount", "is_paid", "created_at").
		From("bill_participants").
		Where("bill_id = ?", billID).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	items := []models.BillItem{}
	participants := []models.BillParticipant{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &items, itemsQuery, itemsArgs...); err != nil {
			return fmt.Errorf("failed to get items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &participants, participantsQuery, participantsArgs...); err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bill.Items = items
	bill.Participants = participants
	return bill, nil
}

// ListBills returns one summary per bill with its participant count, newest
// date first. Bills without participants are included with a count of 0.
func (s *Store) ListBills(ctx context.Context, filter storage.BillFilter) ([]models.BillSummary, error) {
	builder := s.sb.
		Select(
			"b.id",
			"b.title",
			"b.total_amount AS amount",
			"b.date",
			"b.category",
			"COUNT(p.id) AS participants",
		).
		From("bills b").
		LeftJoin("bill_participants p ON p.bill_id = b.id")
	builder = whereAll(builder, billPredicate(filter, "b.")).
		GroupBy("b.id", "b.title", "b.total_amount", "b.date", "b.category").
		OrderBy("b.date DESC", "b.id DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bill list query: %w", err)
	}

	summaries := []models.BillSummary{}
	if err := s.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return summaries, nil
}

// ListBillsForAnalytics returns bill rows without items or participants,
// oldest first.
func (s *Store) ListBillsForAnalytics(ctx context.Context, filter storage.BillFilter) ([]models.Bill, error) {
	builder := s.sb.
		Select("id", "user_id", "title", "category", "total_amount", "date", "created_at").
		From("bills")
	builder = whereAll(builder, billPredicate(filter, "")).OrderBy("date", "id")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics query: %w", err)
	}

	bills := []models.Bill{}
	if err := s.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills for analytics: %w", err)
	}
	return bills, nil
}
