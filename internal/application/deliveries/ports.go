package deliveries

import (
	"context"
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// ReceiptLine línea del comprobante con los datos del catálogo ya resueltos.
type ReceiptLine struct {
	Equipment  string
	CANumber   string
	Category   string
	Quantity   int
	ExpiryDate string
}

// Receipt datos necesarios para imprimir el comprobante de una entrega.
type Receipt struct {
	Company     entity.Company
	Employee    entity.Employee
	Delivery    entity.Delivery
	Lines       []ReceiptLine
	GeneratedAt time.Time
}

// ReceiptGenerator genera el comprobante (PDF) de una entrega.
type ReceiptGenerator interface {
	DeliveryReceipt(ctx context.Context, r *Receipt) ([]byte, error)
}
