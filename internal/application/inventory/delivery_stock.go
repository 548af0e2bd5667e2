package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// Motivos registrados en el ledger por los flujos de entregas.
const (
	ReasonDelivery        = "Entrega para colaborador"
	ReasonEditIncreased   = "Edição de entrega - quantidade aumentada"
	ReasonEditDecreased   = "Edição de entrega - quantidade diminuída"
	ReasonDeliveryDeleted = "Exclusão de entrega - estoque devolvido"
	ReasonEmployeeReturn  = "Devolução de colaborador"

	returnLotPrefix  = "LOTE-DEV-"
	returnItemPrefix = "estoque_dev_"
)

// DeliveryContext datos de la entrega que se copian a los movimientos.
type DeliveryContext struct {
	DeliveryID   string
	FichaID      string
	EmployeeName string
	CompanyID    string
	Actor        string
}

// ReturnLine unidades devueltas de un tipo de EPI.
type ReturnLine struct {
	EquipmentTypeID string
	Quantity        int
	Reason          string
}

// DeliveryStock reconcilia el stock con las entregas. Cada línea se procesa por
// separado: un fallo en una no impide las demás y queda en el StockOutcome.
type DeliveryStock struct {
	movements *MovementUseCase
	stock     repository.StockRepository
	types     repository.EquipmentTypeRepository
	log       *logger.Logger
}

// NewDeliveryStock construye el caso de uso.
func NewDeliveryStock(
	movements *MovementUseCase,
	stock repository.StockRepository,
	types repository.EquipmentTypeRepository,
	log *logger.Logger,
) *DeliveryStock {
	return &DeliveryStock{movements: movements, stock: stock, types: types, log: log}
}

// ApplyCreated descuenta cada línea de la entrega nueva.
func (d *DeliveryStock) ApplyCreated(ctx context.Context, dc DeliveryContext, lines []domaininv.Line) StockOutcome {
	out := newOutcome()
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		d.outbound(ctx, out, dc, line.EquipmentTypeID, line.Quantity, ReasonDelivery,
			fmt.Sprintf("Entrega para %s (%s)", dc.EmployeeName, dc.CompanyID))
	}
	return d.done("delivery_created", dc, out)
}

// ApplyEdited aplica solo la diferencia neta por tipo entre las líneas anteriores y las nuevas.
func (d *DeliveryStock) ApplyEdited(ctx context.Context, dc DeliveryContext, oldLines, newLines []domaininv.Line) StockOutcome {
	out := newOutcome()
	for _, adj := range domaininv.DiffLines(oldLines, newLines) {
		switch adj.Direction {
		case domaininv.DirectionOutbound:
			d.outbound(ctx, out, dc, adj.EquipmentTypeID, adj.Quantity, ReasonEditIncreased,
				fmt.Sprintf("Edição da entrega para %s - acréscimo de %d unidade(s)", dc.EmployeeName, adj.Quantity))
		case domaininv.DirectionInbound:
			d.inbound(ctx, out, dc, adj.EquipmentTypeID, adj.Quantity, ReasonEditDecreased,
				fmt.Sprintf("Edição da entrega para %s - retorno de %d unidade(s)", dc.EmployeeName, adj.Quantity))
		}
	}
	return d.done("delivery_edited", dc, out)
}

// ApplyDeleted devuelve al stock las líneas recibidas (las unidades todavía en poder del colaborador).
func (d *DeliveryStock) ApplyDeleted(ctx context.Context, dc DeliveryContext, lines []domaininv.Line) StockOutcome {
	out := newOutcome()
	for _, adj := range domaininv.DiffLines(lines, nil) {
		d.inbound(ctx, out, dc, adj.EquipmentTypeID, adj.Quantity, ReasonDeliveryDeleted,
			fmt.Sprintf("Exclusão da entrega de %s - retorno de %d unidade(s)", dc.EmployeeName, adj.Quantity))
	}
	return d.done("delivery_deleted", dc, out)
}

// ApplyReturn ingresa las devoluciones en el ítem del almacén central del tipo,
// creándolo si no existe.
func (d *DeliveryStock) ApplyReturn(ctx context.Context, dc DeliveryContext, lines []ReturnLine) StockOutcome {
	out := newOutcome()
	for _, line := range lines {
		if line.Quantity <= 0 {
			out.fail(fmt.Sprintf("devolución de %s: cantidad inválida", line.EquipmentTypeID))
			continue
		}
		typ, err := d.types.GetByID(ctx, line.EquipmentTypeID)
		if err != nil {
			out.fail(typeError(line.EquipmentTypeID, err))
			continue
		}
		item, err := centralItemForType(ctx, d.stock, typ.ID)
		if err != nil {
			out.fail(fmt.Sprintf("devolución de %s: %v", typ.Name, err))
			continue
		}
		if item == nil {
			item, err = d.createReturnItem(ctx, typ)
			if err != nil {
				out.fail(fmt.Sprintf("devolución de %s: %v", typ.Name, err))
				continue
			}
		}
		reason := line.Reason
		if reason == "" {
			reason = ReasonEmployeeReturn
		}
		res, err := d.movements.Inbound(ctx, InboundInput{
			StockItemID: item.ID,
			Quantity:    line.Quantity,
			Actor:       dc.Actor,
			Reason:      reason,
			Kind:        entity.MovementReturn,
			DeliveryID:  dc.DeliveryID,
			Notes:       fmt.Sprintf("Devolução de %s (%s)", dc.EmployeeName, dc.CompanyID),
			Context:     EventContext{FichaID: dc.FichaID, EmployeeName: dc.EmployeeName},
		})
		if err != nil {
			out.fail(fmt.Sprintf("devolución de %s: %v", typ.Name, err))
			continue
		}
		out.applied(res, typ.Name)
	}
	return d.done("return", dc, out)
}

func (d *DeliveryStock) createReturnItem(ctx context.Context, typ *entity.EquipmentType) (*entity.StockItem, error) {
	now := d.movements.now()
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	item := &entity.StockItem{
		ID:              returnItemPrefix + ts + "_" + typ.ID,
		EquipmentTypeID: typ.ID,
		OwnerID:         entity.CentralWarehouseID,
		Quantity:        0,
		MinQuantity:     domaininv.DefaultMinQuantity,
		Location:        entity.CentralWarehouseLocation,
		Lot:             returnLotPrefix + ts,
		ExpiryDate:      domaininv.ReturnExpiry(now, typ.ServiceLifeDays),
	}
	item.Status = domaininv.DeriveStatus(item, now)
	if err := d.stock.Create(ctx, item); err != nil {
		return nil, err
	}
	d.log.Info().Str("stock_item_id", item.ID).Str("equipment_type_id", typ.ID).
		Msg("ítem del almacén central creado para devolución")
	return item, nil
}

func (d *DeliveryStock) outbound(ctx context.Context, out *StockOutcome, dc DeliveryContext, typeID string, qty int, reason, notes string) {
	typ, item, ok := d.resolve(ctx, out, typeID)
	if !ok {
		return
	}
	res, err := d.movements.Outbound(ctx, OutboundInput{
		StockItemID: item.ID,
		Quantity:    qty,
		Actor:       dc.Actor,
		Reason:      reason,
		DeliveryID:  dc.DeliveryID,
		Notes:       notes,
		Context:     EventContext{FichaID: dc.FichaID, EmployeeName: dc.EmployeeName},
	})
	if err != nil {
		out.fail(fmt.Sprintf("salida de %s: %v", typ.Name, err))
		return
	}
	out.applied(res, typ.Name)
}

func (d *DeliveryStock) inbound(ctx context.Context, out *StockOutcome, dc DeliveryContext, typeID string, qty int, reason, notes string) {
	typ, item, ok := d.resolve(ctx, out, typeID)
	if !ok {
		return
	}
	res, err := d.movements.Inbound(ctx, InboundInput{
		StockItemID: item.ID,
		Quantity:    qty,
		Actor:       dc.Actor,
		Reason:      reason,
		DeliveryID:  dc.DeliveryID,
		Notes:       notes,
		Context:     EventContext{FichaID: dc.FichaID, EmployeeName: dc.EmployeeName},
	})
	if err != nil {
		out.fail(fmt.Sprintf("entrada de %s: %v", typ.Name, err))
		return
	}
	out.applied(res, typ.Name)
}

func (d *DeliveryStock) resolve(ctx context.Context, out *StockOutcome, typeID string) (*entity.EquipmentType, *entity.StockItem, bool) {
	typ, err := d.types.GetByID(ctx, typeID)
	if err != nil {
		out.fail(typeError(typeID, err))
		return nil, nil, false
	}
	item, err := resolveItemForType(ctx, d.stock, typ.ID, d.movements.now())
	if err != nil {
		out.fail(fmt.Sprintf("stock de %s: %v", typ.Name, err))
		return nil, nil, false
	}
	if item == nil {
		out.fail(fmt.Sprintf("no hay ítem de stock para %s", typ.Name))
		return nil, nil, false
	}
	return typ, item, true
}

func (d *DeliveryStock) done(workflow string, dc DeliveryContext, out *StockOutcome) StockOutcome {
	res := out.finish()
	if !res.OK() {
		softErrorsTotal.WithLabelValues(workflow).Add(float64(len(res.Errors)))
		d.log.Warn().
			Str("workflow", workflow).
			Str("delivery_id", dc.DeliveryID).
			Strs("errors", res.Errors).
			Msg("stock no actualizado por completo")
	}
	return res
}

func typeError(typeID string, err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("tipo de EPI %s no encontrado", typeID)
	}
	return fmt.Sprintf("tipo de EPI %s: %v", typeID, err)
}
