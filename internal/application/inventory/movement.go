package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// EventContext referencias opcionales que se copian al historial de stock.
type EventContext struct {
	FichaID      string
	EmployeeName string
	NotaID       string
}

// InboundInput entrada de unidades (entrada o devolucao).
type InboundInput struct {
	StockItemID string
	Quantity    int
	Actor       string
	Reason      string
	Kind        string // entrada (por defecto) o devolucao
	Invoice     string
	UnitCost    *decimal.Decimal
	Supplier    string
	Lot         string
	Notes       string
	DeliveryID  string
	Context     EventContext
}

// OutboundInput salida de unidades. Con DeliveryID el tipo es siempre entrega.
type OutboundInput struct {
	StockItemID string
	Quantity    int
	Actor       string
	Reason      string
	Kind        string // saida (por defecto), perda o vencimento
	DeliveryID  string
	Notes       string
	Context     EventContext
}

// AdjustInput fija la cantidad absoluta de un ítem.
type AdjustInput struct {
	StockItemID string
	NewQuantity int
	Actor       string
	Reason      string
	Notes       string
}

// MovementResult lo escrito por una operación del ledger.
type MovementResult struct {
	Item     *entity.StockItem     `json:"item"`
	Movement *entity.StockMovement `json:"movimentacao"`
	Event    *entity.StockEvent    `json:"evento"`
}

// MovementUseCase aplica entradas, salidas y ajustes sobre ítems de stock.
// Cada operación lee, calcula y escribe la cantidad, registra el movimiento y el
// evento de historial, y actualiza la instantánea de estado. Las operaciones sobre
// un mismo ítem se serializan dentro del proceso.
type MovementUseCase struct {
	stock     repository.StockRepository
	movements repository.StockMovementRepository
	events    repository.StockEventRepository
	types     repository.EquipmentTypeRepository
	locks     *keyedMutex
	now       func() time.Time
	log       *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	stock repository.StockRepository,
	movements repository.StockMovementRepository,
	events repository.StockEventRepository,
	types repository.EquipmentTypeRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		stock:     stock,
		movements: movements,
		events:    events,
		types:     types,
		locks:     newKeyedMutex(),
		now:       time.Now,
		log:       log,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *MovementUseCase) WithClock(now func() time.Time) *MovementUseCase {
	uc.now = now
	return uc
}

// Inbound suma unidades. No hay límite superior.
func (uc *MovementUseCase) Inbound(ctx context.Context, in InboundInput) (*MovementResult, error) {
	if in.Kind == "" {
		in.Kind = entity.MovementInbound
	}
	if err := validateMovement(in.StockItemID, in.Quantity, in.Actor); err != nil {
		return nil, err
	}
	if !entity.IsInboundKind(in.Kind) {
		return nil, fmt.Errorf("%w: tipo de entrada inválido %q", domain.ErrInvalidInput, in.Kind)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}

	unlock := uc.locks.Lock(in.StockItemID)
	defer unlock()

	now := uc.now()
	var costBefore *entity.StockItem
	if in.UnitCost != nil {
		item, err := uc.stock.GetByID(ctx, in.StockItemID)
		if err != nil {
			return nil, err
		}
		costBefore = item
	}

	change, err := uc.stock.AddQuantity(ctx, in.StockItemID, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	item := change.Item

	fields := map[string]any{}
	if in.UnitCost != nil {
		current := decimal.Zero
		if costBefore.UnitCost != nil {
			current = *costBefore.UnitCost
		}
		cost := domaininv.WeightedUnitCost(change.Previous, current, in.Quantity, *in.UnitCost)
		item.UnitCost = &cost
		fields["custoUnitario"] = cost
	}
	if in.Supplier != "" {
		item.Supplier = in.Supplier
		fields["fornecedor"] = in.Supplier
	}

	name := uc.typeName(ctx, item.EquipmentTypeID)
	mov := &entity.StockMovement{
		StockItemID:      item.ID,
		Kind:             in.Kind,
		Quantity:         in.Quantity,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		ActorID:          in.Actor,
		Reason:           in.Reason,
		Date:             now,
		Notes:            in.Notes,
		Invoice:          in.Invoice,
		UnitCost:         in.UnitCost,
		DeliveryID:       in.DeliveryID,
		Lot:              in.Lot,
	}
	ev := &entity.StockEvent{
		StockItemID:      item.ID,
		EquipmentTypeID:  item.EquipmentTypeID,
		Kind:             in.Kind,
		Date:             now,
		Actor:            in.Actor,
		Description:      describe(in.Kind, name),
		Quantity:         in.Quantity,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		Reason:           in.Reason,
		Details: &entity.StockEventDetails{
			DeliveryID:   in.DeliveryID,
			FichaID:      in.Context.FichaID,
			EmployeeName: in.Context.EmployeeName,
			NotaID:       in.Context.NotaID,
			Invoice:      in.Invoice,
			UnitCost:     in.UnitCost,
			Supplier:     in.Supplier,
			Lot:          in.Lot,
			Notes:        in.Notes,
		},
	}
	unitsTotal.WithLabelValues(string(domaininv.DirectionInbound)).Add(float64(in.Quantity))
	return uc.record(ctx, item, mov, ev, fields)
}

// Outbound resta unidades aunque la cantidad quede negativa; en ese caso solo registra un aviso.
func (uc *MovementUseCase) Outbound(ctx context.Context, in OutboundInput) (*MovementResult, error) {
	switch {
	case in.DeliveryID != "":
		in.Kind = entity.MovementDelivery
	case in.Kind == "":
		in.Kind = entity.MovementOutbound
	}
	if err := validateMovement(in.StockItemID, in.Quantity, in.Actor); err != nil {
		return nil, err
	}
	if !entity.IsOutboundKind(in.Kind) {
		return nil, fmt.Errorf("%w: tipo de salida inválido %q", domain.ErrInvalidInput, in.Kind)
	}

	unlock := uc.locks.Lock(in.StockItemID)
	defer unlock()

	now := uc.now()
	change, err := uc.stock.AddQuantity(ctx, in.StockItemID, -in.Quantity, now)
	if err != nil {
		return nil, err
	}
	item := change.Item
	name := uc.typeName(ctx, item.EquipmentTypeID)

	if change.Current < 0 {
		negativeStockTotal.Inc()
		uc.log.Warn().
			Str("stock_item_id", item.ID).
			Str("equipment", name).
			Int("available", change.Previous).
			Int("quantity", in.Quantity).
			Msg("stock insuficiente: la cantidad quedó negativa")
	}

	mov := &entity.StockMovement{
		StockItemID:      item.ID,
		Kind:             in.Kind,
		Quantity:         in.Quantity,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		ActorID:          in.Actor,
		Reason:           in.Reason,
		Date:             now,
		Notes:            in.Notes,
		DeliveryID:       in.DeliveryID,
		Lot:              item.Lot,
	}
	ev := &entity.StockEvent{
		StockItemID:      item.ID,
		EquipmentTypeID:  item.EquipmentTypeID,
		Kind:             in.Kind,
		Date:             now,
		Actor:            in.Actor,
		Description:      describe(in.Kind, name),
		Quantity:         in.Quantity,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		Reason:           in.Reason,
		Details: &entity.StockEventDetails{
			DeliveryID:   in.DeliveryID,
			FichaID:      in.Context.FichaID,
			EmployeeName: in.Context.EmployeeName,
			NotaID:       in.Context.NotaID,
			Notes:        in.Notes,
		},
	}
	unitsTotal.WithLabelValues(string(domaininv.DirectionOutbound)).Add(float64(in.Quantity))
	return uc.record(ctx, item, mov, ev, map[string]any{})
}

// Adjust escribe la cantidad indicada. El movimiento registra |nueva - anterior|.
func (uc *MovementUseCase) Adjust(ctx context.Context, in AdjustInput) (*MovementResult, error) {
	if strings.TrimSpace(in.StockItemID) == "" {
		return nil, fmt.Errorf("%w: ítem de stock requerido", domain.ErrInvalidInput)
	}
	if in.NewQuantity < 0 {
		return nil, fmt.Errorf("%w: la nueva cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Actor) == "" {
		return nil, fmt.Errorf("%w: responsable requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: motivo requerido", domain.ErrInvalidInput)
	}

	unlock := uc.locks.Lock(in.StockItemID)
	defer unlock()

	now := uc.now()
	change, err := uc.stock.SetQuantity(ctx, in.StockItemID, in.NewQuantity, now)
	if err != nil {
		return nil, err
	}
	item := change.Item
	name := uc.typeName(ctx, item.EquipmentTypeID)
	diff := change.Current - change.Previous
	amount := abs(diff)

	direction := "Aumento"
	if diff < 0 {
		direction = "Redução"
	}
	mov := &entity.StockMovement{
		StockItemID:      item.ID,
		Kind:             entity.MovementAdjustment,
		Quantity:         amount,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		ActorID:          in.Actor,
		Reason:           in.Reason,
		Date:             now,
		Notes:            in.Notes,
		Lot:              item.Lot,
	}
	ev := &entity.StockEvent{
		StockItemID:      item.ID,
		EquipmentTypeID:  item.EquipmentTypeID,
		Kind:             entity.MovementAdjustment,
		Date:             now,
		Actor:            in.Actor,
		Description:      describe(entity.MovementAdjustment, name),
		Quantity:         amount,
		PreviousQuantity: change.Previous,
		CurrentQuantity:  change.Current,
		Reason:           fmt.Sprintf("%s - %s de %d unidades", in.Reason, direction, amount),
	}
	if in.Notes != "" {
		ev.Details = &entity.StockEventDetails{Notes: in.Notes}
	}
	return uc.record(ctx, item, mov, ev, map[string]any{})
}

// record escribe movimiento, evento e instantánea de estado. La cantidad ya quedó
// escrita: un fallo aquí se devuelve sin compensar.
func (uc *MovementUseCase) record(
	ctx context.Context,
	item *entity.StockItem,
	mov *entity.StockMovement,
	ev *entity.StockEvent,
	fields map[string]any,
) (*MovementResult, error) {
	status := domaininv.DeriveStatus(item, uc.now())
	if status != item.Status {
		fields["status"] = status
	}
	item.Status = status
	if len(fields) > 0 {
		if err := uc.stock.PatchFields(ctx, item.ID, fields); err != nil {
			return nil, fmt.Errorf("actualizar estado de %s: %w", item.ID, err)
		}
	}
	if err := uc.movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimiento de %s: %w", item.ID, err)
	}
	if err := uc.events.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("registrar historial de %s: %w", item.ID, err)
	}
	movementsTotal.WithLabelValues(mov.Kind).Inc()

	uc.log.Debug().
		Str("stock_item_id", item.ID).
		Str("kind", mov.Kind).
		Int("previous", mov.PreviousQuantity).
		Int("current", mov.CurrentQuantity).
		Msg("movimiento de stock aplicado")
	return &MovementResult{Item: item, Movement: mov, Event: ev}, nil
}

// typeName nombre del tipo de EPI para las descripciones; el id si no se encuentra.
func (uc *MovementUseCase) typeName(ctx context.Context, typeID string) string {
	if uc.types == nil || typeID == "" {
		return typeID
	}
	t, err := uc.types.GetByID(ctx, typeID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().Err(err).Str("equipment_type_id", typeID).Msg("no fue posible leer el tipo de EPI")
		}
		return typeID
	}
	return t.Name
}

func validateMovement(itemID string, qty int, actor string) error {
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: ítem de stock requerido", domain.ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(actor) == "" {
		return fmt.Errorf("%w: responsable requerido", domain.ErrInvalidInput)
	}
	return nil
}

// describe texto del historial de stock, en el idioma de los datos.
func describe(kind, name string) string {
	switch kind {
	case entity.MovementInbound:
		return "Entrada de estoque - " + name
	case entity.MovementReturn:
		return "Devolução ao estoque - " + name
	case entity.MovementDelivery:
		return "Saída por entrega - " + name
	case entity.MovementOutbound:
		return "Saída de estoque - " + name
	case entity.MovementLoss:
		return "Perda de estoque - " + name
	case entity.MovementExpiry:
		return "Baixa por vencimento - " + name
	case entity.MovementAdjustment:
		return "Ajuste de estoque - " + name
	case entity.MovementRegistration:
		return "Item de estoque criado - " + name
	}
	return name
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
