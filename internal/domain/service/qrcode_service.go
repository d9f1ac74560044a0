package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for pickup QR codes. Orders with
// delivery_type=pickup expose a QR the buyer presents at the store; the
// seller's device scans it to verify the handoff.
type QRCodeService interface {
	// GeneratePickupQR generates a PNG QR code identifying the order.
	GeneratePickupQR(orderID uuid.UUID) ([]byte, error)

	// ParsePickupQR parses scanned QR data and returns the order ID.
	ParsePickupQR(qrData string) (uuid.UUID, error)
}
