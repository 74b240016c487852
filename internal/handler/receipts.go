package handler

import (
	"errors"
	"net/http"
)

// receiptField is the multipart field holding the receipt image.
const receiptField = "receipt"

func (h *handler) scanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(receiptField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Receipt image too large")
			return
		}
		writeMessage(w, http.StatusBadRequest, "No receipt image provided")
		return
	}
	defer file.Close()

	h.logger.Debug("Receipt upload received", "filename", header.Filename, "size", header.Size)

	items, err := h.Receipts.Scan(r.Context(), file)
	if err != nil {
		h.fail(w, r, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
