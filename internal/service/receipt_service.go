package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/models"
)

// ReceiptService extracts line items from receipt images. There is no OCR
// backend yet; every receipt yields the same sample items.
type ReceiptService struct {
	logger *slog.Logger
}

func NewReceiptService(logger *slog.Logger) *ReceiptService {
	return &ReceiptService{logger: orDefault(logger)}
}

// Scan consumes the image and returns the extracted items.
func (s *ReceiptService) Scan(ctx context.Context, image io.Reader) ([]models.ReceiptItem, error) {
	n, err := io.Copy(io.Discard, image)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	s.logger.Info("Receipt scanned", "bytes", n)

	return []models.ReceiptItem{
		{ItemName: "Coffee", Price: decimal.RequireFromString("4.5")},
		{ItemName: "Sandwich", Price: decimal.RequireFromString("8.75")},
		{ItemName: "Juice", Price: decimal.RequireFromString("3.25")},
	}, nil
}
