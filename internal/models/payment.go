package models

import "github.com/shopspring/decimal"

// PaymentMethod is an account a user can be paid through, e.g. a bank
// account or a wallet handle.
type PaymentMethod struct {
	ID            int64  `db:"id" json:"id"`
	UserID        int64  `db:"user_id" json:"userId"`
	MethodName    string `db:"method_name" json:"methodName"`
	AccountNumber string `db:"account_number" json:"accountNumber"`
	// UserName is the owner's name, filled by list and get queries.
	UserName  *string `db:"user_name" json:"userName,omitempty"`
	CreatedAt int64   `db:"created_at" json:"-"`
}

// Push platforms reported by clients.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// FCMToken is a push-notification registration for one device.
// (UserID, DeviceID) identifies a registration when DeviceID is set.
type FCMToken struct {
	ID        int64   `db:"id" json:"id"`
	UserID    int64   `db:"user_id" json:"userId"`
	Token     string  `db:"token" json:"token"`
	DeviceID  *string `db:"device_id" json:"deviceId,omitempty"`
	Platform  *string `db:"platform" json:"platform,omitempty"`
	CreatedAt int64   `db:"created_at" json:"createdAt"`
}

// ReceiptItem is a line item extracted from a receipt image.
type ReceiptItem struct {
	ItemName string          `json:"itemName"`
	Price    decimal.Decimal `json:"price"`
}
