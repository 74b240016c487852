package handler

import (
	"net/http"

	"github.com/mmynk/splitbill/internal/models"
)

func (h *handler) listBills(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorize(r, userID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	bills, err := h.Bills.ListBills(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *handler) getBill(w http.ResponseWriter, r *http.Request) {
	billID, err := pathID(r, "billId", "bill")
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	bill, err := h.Bills.GetBill(r.Context(), billID)
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorize(r, bill.UserID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req models.NewBill
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorize(r, req.UserID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	id, err := h.Bills.CreateBill(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type paymentRequest struct {
	ParticipantID int64 `json:"participantId"`
	IsPaid        *bool `json:"isPaid"`
}

func (h *handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	billID, err := pathID(r, "billId", "bill")
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorizeBill(r, billID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if req.ParticipantID <= 0 || req.IsPaid == nil {
		writeMessage(w, http.StatusBadRequest, "Bill ID, participant ID and payment status are required")
		return
	}

	if err := h.Bills.UpdatePaymentStatus(r.Context(), billID, req.ParticipantID, *req.IsPaid); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeMessage(w, http.StatusOK, "Payment status updated successfully")
}

func (h *handler) addItems(w http.ResponseWriter, r *http.Request) {
	billID, err := pathID(r, "billId", "bill")
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorizeBill(r, billID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	var items []models.NewBillItem
	if err := decodeJSON(w, r, &items); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	if err := h.Bills.AddItems(r.Context(), billID, items); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeMessage(w, http.StatusCreated, "Bill items saved successfully")
}

func (h *handler) addParticipants(w http.ResponseWriter, r *http.Request) {
	billID, err := pathID(r, "billId", "bill")
	if err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	if err := h.authorizeBill(r, billID); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	var participants []models.NewBillParticipant
	if err := decodeJSON(w, r, &participants); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}

	if err := h.Bills.AddParticipants(r.Context(), billID, participants); err != nil {
		h.fail(w, r, err, "Bill")
		return
	}
	writeMessage(w, http.StatusCreated, "Bill participants saved successfully")
}

func (h *handler) analytics(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	if err := h.authorize(r, userID); err != nil {
		h.fail(w, r, err, "User")
		return
	}

	summary, err := h.Analytics.Summary(r.Context(), userID, r.URL.Query().Get("activeFilter"))
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
