package handler

import (
	"net/http"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/service"
)

func (h *handler) listFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	if err := h.authorize(r, userID); err != nil {
		h.fail(w, r, err, "Friend")
		return
	}

	friends, err := h.Friends.ListFriends(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *handler) addFriend(w http.ResponseWriter, r *http.Request) {
	var friend models.Friend
	if err := decodeJSON(w, r, &friend); err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	friend.ID = 0
	if err := h.authorize(r, friend.UserID); err != nil {
		h.fail(w, r, err, "Friend")
		return
	}

	created, err := h.Friends.AddFriend(r.Context(), &friend)
	if err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) deleteFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "friendId", "friend")
	if err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	if err := h.authorizeFriend(r, id); err != nil {
		h.fail(w, r, err, "Friend")
		return
	}

	if err := h.Friends.DeleteFriend(r.Context(), id); err != nil {
		h.fail(w, r, err, "Friend")
		return
	}
	writeMessage(w, http.StatusOK, "Friend deleted successfully")
}

type paymentMethodRequest struct {
	UserID        int64  `json:"userId"`
	MethodName    string `json:"methodName"`
	AccountNumber string `json:"accountNumber"`
}

func (h *handler) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	if err := h.authorize(r, userID); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	methods, err := h.PaymentMethods.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

func (h *handler) getPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "payment method")
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	method, err := h.PaymentMethods.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	if err := h.authorize(r, method.UserID); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	writeJSON(w, http.StatusOK, method)
}

func (h *handler) createPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	if err := h.authorize(r, req.UserID); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	method, err := h.PaymentMethods.Create(r.Context(), req.UserID, req.MethodName, req.AccountNumber)
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	writeJSON(w, http.StatusCreated, method)
}

func (h *handler) updatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "payment method")
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	if err := h.authorizePaymentMethod(r, id); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	var req paymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	method, err := h.PaymentMethods.Update(r.Context(), id, req.MethodName, req.AccountNumber)
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	writeJSON(w, http.StatusOK, method)
}

func (h *handler) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "payment method")
	if err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	if err := h.authorizePaymentMethod(r, id); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}

	if err := h.PaymentMethods.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "Payment method")
		return
	}
	writeMessage(w, http.StatusOK, "Payment method deleted successfully")
}

type tokenResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (h *handler) registerFCMToken(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterTokenInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}
	if err := h.authorize(r, req.UserID); err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}

	token, created, err := h.FCMTokens.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}
	if created {
		writeJSON(w, http.StatusCreated, tokenResponse{Message: "FCM token registered successfully", ID: token.ID})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Message: "FCM token updated successfully", ID: token.ID})
}

func (h *handler) listFCMTokens(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}
	if err := h.authorize(r, userID); err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}

	tokens, err := h.FCMTokens.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

type deleteTokenRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

func (h *handler) deleteFCMToken(w http.ResponseWriter, r *http.Request) {
	var req deleteTokenRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.fail(w, r, err, "FCM token")
			return
		}
	}
	if req.Token == "" && req.DeviceID == "" {
		q := r.URL.Query()
		req.Token, req.DeviceID = q.Get("token"), q.Get("deviceId")
	}

	// Another user's registration is treated as absent.
	if req.Token != "" || req.DeviceID != "" {
		owned, err := h.ownsFCMToken(r, req.Token, req.DeviceID)
		if err != nil {
			h.fail(w, r, err, "FCM token")
			return
		}
		if !owned {
			writeMessage(w, http.StatusOK, "FCM token deleted successfully")
			return
		}
	}

	if err := h.FCMTokens.Delete(r.Context(), req.Token, req.DeviceID); err != nil {
		h.fail(w, r, err, "FCM token")
		return
	}
	writeMessage(w, http.StatusOK, "FCM token deleted successfully")
}
