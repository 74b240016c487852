package handler

import (
	"errors"
	"net/http"

	"github.com/mmynk/splitbill/internal/middleware"
)

// errForbidden rejects a request that acts on another user's data.
var errForbidden = errors.New("forbidden")

// authorize checks that the authenticated caller is userID. Everything is
// allowed when authentication is off. A zero userID is left to validation.
func (h *handler) authorize(r *http.Request, userID int64) error {
	if !h.requireAuth || userID == 0 {
		return nil
	}
	if middleware.GetUserID(r.Context()) != userID {
		return errForbidden
	}
	return nil
}

// authorizeBill checks that the caller owns the bill.
func (h *handler) authorizeBill(r *http.Request, billID int64) error {
	if !h.requireAuth {
		return nil
	}
	bill, err := h.Bills.GetBill(r.Context(), billID)
	if err != nil {
		return err
	}
	return h.authorize(r, bill.UserID)
}

// authorizePaymentMethod checks that the caller owns the payment method.
func (h *handler) authorizePaymentMethod(r *http.Request, id int64) error {
	if !h.requireAuth {
		return nil
	}
	method, err := h.PaymentMethods.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return h.authorize(r, method.UserID)
}

// authorizeFriend checks that the friend entry belongs to the caller.
func (h *handler) authorizeFriend(r *http.Request, friendID int64) error {
	if !h.requireAuth {
		return nil
	}
	friends, err := h.Friends.ListFriends(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		return err
	}
	for _, f := range friends {
		if f.ID == friendID {
			return nil
		}
	}
	return errForbidden
}

// ownsFCMToken reports whether the caller has a registration matching token,
// or deviceID when token is empty.
func (h *handler) ownsFCMToken(r *http.Request, token, deviceID string) (bool, error) {
	if !h.requireAuth {
		return true, nil
	}
	tokens, err := h.FCMTokens.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		return false, err
	}
	for _, t := range tokens {
		if token != "" && t.Token == token {
			return true, nil
		}
		if token == "" && t.DeviceID != nil && *t.DeviceID == deviceID {
			return true, nil
		}
	}
	return false, nil
}
