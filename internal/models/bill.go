package models

import "github.com/shopspring/decimal"

// Bill is a recorded expense owned by one user.
// TotalAmount is whatever the caller supplied. It is not reconciled with the
// item prices or participant shares.
type Bill struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"userId"`
	Title       string          `db:"title" json:"title"`
	Category    string          `db:"category" json:"category"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Date        Date            `db:"date" json:"date"`
	CreatedAt   int64           `db:"created_at" json:"createdAt"`

	Items        []BillItem        `db:"-" json:"items"`
	Participants []BillParticipant `db:"-" json:"participants"`
}

// BillItem is a single line item on a bill.
type BillItem struct {
	ID        int64           `db:"id" json:"id"`
	BillID    int64           `db:"bill_id" json:"billId"`
	ItemName  string          `db:"item_name" json:"itemName"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt int64           `db:"created_at" json:"-"`
}

// BillParticipant is the share one person owes on a bill.
type BillParticipant struct {
	ID            int64           `db:"id" json:"id"`
	BillID        int64           `db:"bill_id" json:"billId"`
	ParticipantID int64           `db:"participant_id" json:"participantId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	IsPaid        bool            `db:"is_paid" json:"isPaid"`
	CreatedAt     int64           `db:"created_at" json:"-"`
}

// NewBill is the input for creating a bill together with its items and
// participants.
type NewBill struct {
	UserID       int64                `json:"userId"`
	Title        string               `json:"title"`
	Category     string               `json:"category"`
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	Date         Date                 `json:"date"`
	Items        []NewBillItem        `json:"items"`
	Participants []NewBillParticipant `json:"participants"`
}

type NewBillItem struct {
	ItemName string          `json:"itemName"`
	Price    decimal.Decimal `json:"price"`
}

// NewBillParticipant is a participant share. IsPaid defaults to false.
type NewBillParticipant struct {
	ParticipantID int64           `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	IsPaid        bool            `json:"isPaid"`
}

// BillSummary is one row of the transactions list.
type BillSummary struct {
	ID           int64           `db:"id" json:"id"`
	Title        string          `db:"title" json:"title"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Date         Date            `db:"date" json:"date"`
	Category     string          `db:"category" json:"category"`
	Participants int64           `db:"participants" json:"participants"`
}
