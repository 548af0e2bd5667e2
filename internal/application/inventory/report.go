package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// StockReport contenido del informe de posición de stock.
type StockReport struct {
	GeneratedAt time.Time
	Items       []dto.StockItemDTO
	Summary     dto.StockSummaryDTO
}

// StockReportGenerator genera el informe (PDF) de posición de stock.
type StockReportGenerator interface {
	StockReport(ctx context.Context, r *StockReport) ([]byte, error)
}

// Report arma el informe de todos los ítems, ordenados por equipo y lote, y lo
// entrega al generador. Devuelve los bytes y el nombre de archivo.
func (uc *StockQueryUseCase) Report(ctx context.Context, gen StockReportGenerator) ([]byte, string, error) {
	items, err := uc.List(ctx, "", "", "")
	if err != nil {
		return nil, "", err
	}
	summary, err := uc.Summary(ctx)
	if err != nil {
		return nil, "", err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].EquipmentName != items[j].EquipmentName {
			return items[i].EquipmentName < items[j].EquipmentName
		}
		return items[i].Lot < items[j].Lot
	})
	now := uc.now()
	pdf, err := gen.StockReport(ctx, &StockReport{GeneratedAt: now, Items: items, Summary: *summary})
	if err != nil {
		return nil, "", fmt.Errorf("informe de stock: %w", err)
	}
	return pdf, fmt.Sprintf("estoque_%s.pdf", entity.FormatDate(now)), nil
}
