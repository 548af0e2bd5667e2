package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

var generatedAt = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func sampleReceipt() *deliveries.Receipt {
	return &deliveries.Receipt{
		Company:  entity.Company{ID: "emp_1", Name: "Construtora Alfa", CNPJ: "12.345.678/0001-90"},
		Employee: entity.Employee{ID: "col_1", Name: "João Silva", CPF: "123.456.789-00", Role: "Soldador"},
		Delivery: entity.Delivery{
			ID:            "entrega_1",
			DeliveredAt:   "2025-03-15T12:00:00Z",
			Actor:         "Sistema EPI",
			Status:        entity.DeliveryUnsigned,
			SignatureLink: "https://app.datalife.com/assinatura/1742040000000",
		},
		Lines: []deliveries.ReceiptLine{
			{Equipment: "Capacete", CANumber: "12345", Category: "Proteção da Cabeça", Quantity: 2, ExpiryDate: "2027-03-15"},
			{Equipment: "Luva", CANumber: "67890", Category: "Proteção das Mãos", Quantity: 4, ExpiryDate: "2025-09-11"},
		},
		GeneratedAt: generatedAt,
	}
}

// ─────────────────────────────────────────────────────────────────────────────

func TestDeliveryReceipt_GeneraPDF(t *testing.T) {
	out, err := NewMarotoPDFGenerator().DeliveryReceipt(context.Background(), sampleReceipt())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDeliveryReceipt_EntregaAssinadaSinQR(t *testing.T) {
	r := sampleReceipt()
	r.Delivery.Status = entity.DeliverySigned
	r.Delivery.Signature = &entity.Signature{SignedAt: "2025-03-16T09:30:00Z"}
	r.Lines = nil

	out, err := NewMarotoPDFGenerator().DeliveryReceipt(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestStockReport_GeneraPDF(t *testing.T) {
	report := &inventory.StockReport{
		GeneratedAt: generatedAt,
		Items: []dto.StockItemDTO{
			{ID: "est_1", EquipmentName: "Capacete", Quantity: 20, MinQuantity: 10, ExpiryDate: "2027-03-15", Status: entity.StockStatusAvailable},
			{ID: "est_2", EquipmentName: "Luva", Quantity: -2, MinQuantity: 5, Status: entity.StockStatusEmpty},
		},
		Summary: dto.StockSummaryDTO{
			TotalItems: 2, TotalUnits: 18, TotalValue: decimal.RequireFromString("1234.5"),
			ByStatus: map[string]int{entity.StockStatusAvailable: 1, entity.StockStatusEmpty: 1},
			Negative: 1,
		},
	}
	out, err := NewMarotoPDFGenerator().StockReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// ── helpers ──────────────────────────────────────────────────────────────────

func TestMoney(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", money(decimal.Zero))
	assert.Equal(t, "-R$ 1.000.000,00", money(decimal.NewFromInt(-1000000)))
}

func TestBrDate(t *testing.T) {
	assert.Equal(t, "15/03/2027", brDate("2027-03-15"))
	assert.Equal(t, "15/03/2025", brDate("2025-03-15T12:00:00Z"))
	assert.Equal(t, "—", brDate(""))
	assert.Equal(t, "amanhã", brDate("amanhã"))
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, splitEvery("abcdefg", 3))
	assert.Nil(t, splitEvery("", 3))
}
