// Package models defines the core domain models for splitbill.
//
// # Aggregates
//
// A Bill is the aggregate root for its line items (BillItem) and the
// participant shares (BillParticipant) owed against it. Items and
// participants are written together with the bill at creation time and can
// be appended later.
//
// # Peer entities
//
//   - User: registered account that owns bills, friends and payment methods
//   - Friend: contact owned by a user, usually a bill participant
//   - PaymentMethod: account a user can be paid through
//   - FCMToken: push-notification registration for one device
//
// # Conventions
//
//  1. IDs are int64 values assigned by the store.
//  2. CreatedAt fields are Unix seconds set by the store on insert.
//  3. Money is a decimal.Decimal and encodes to JSON as a bare number.
//  4. Bill dates are calendar dates (see Date), never timestamps.
//
// A participant ID is a logical reference to either a Friend or a User and
// is not checked against either table.
package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as numbers, e.g. {"total": 30}.
	decimal.MarshalJSONWithoutQuotes = true
}
