package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// NotaItemInput línea de una nota.
type NotaItemInput struct {
	EquipmentTypeID string
	Quantity        int
	UnitCost        *decimal.Decimal
	Lot             string
	Notes           string
}

// NotaInput datos para crear o editar una nota. Supplier e Invoice solo se usan en
// entradas; Recipient y Requester en salidas.
type NotaInput struct {
	Actor     string
	Reason    string
	Notes     string
	Supplier  string
	Invoice   string
	Recipient string
	Requester string
	Items     []NotaItemInput
}

// NotaResult nota guardada más el resultado de su procesamiento en el stock.
type NotaResult struct {
	Nota  *entity.Nota `json:"nota"`
	Stock StockOutcome `json:"stock"`
}

// NotaUseCase gestiona notas de entrada y salida de varias líneas.
type NotaUseCase struct {
	notas     map[string]repository.NotaRepository
	movements *MovementUseCase
	stock     repository.StockRepository
	log       *logger.Logger
}

// NewNotaUseCase construye el caso de uso.
func NewNotaUseCase(
	inbound, outbound repository.NotaRepository,
	movements *MovementUseCase,
	stock repository.StockRepository,
	log *logger.Logger,
) *NotaUseCase {
	return &NotaUseCase{
		notas:     map[string]repository.NotaRepository{entity.NotaInbound: inbound, entity.NotaOutbound: outbound},
		movements: movements,
		stock:     stock,
		log:       log,
	}
}

func (uc *NotaUseCase) repo(kind string) (repository.NotaRepository, error) {
	r, ok := uc.notas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de nota %q (esperado entrada o saida)", domain.ErrInvalidInput, kind)
	}
	return r, nil
}

// Create guarda la nota como pendente y la procesa de inmediato.
func (uc *NotaUseCase) Create(ctx context.Context, kind string, in NotaInput) (*NotaResult, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateNota(in); err != nil {
		return nil, err
	}

	now := uc.movements.now()
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	n := &entity.Nota{
		ID:      "nota_" + kind + "_" + ts,
		Number:  strings.ToUpper(kind) + "-" + ts,
		OwnerID: entity.CentralWarehouseID,
		Date:    now,
		Actor:   in.Actor,
		Reason:  in.Reason,
		Notes:   in.Notes,
		Status:  entity.NotaPending,
		Items:   notaItems(in.Items, ts),
	}
	applyKindFields(n, kind, in)

	if err := repo.Create(ctx, n); err != nil {
		return nil, err
	}
	uc.log.Info().Str("nota_id", n.ID).Str("kind", kind).Int("items", len(n.Items)).Msg("nota creada")
	return uc.process(ctx, kind, repo, n, newOutcome())
}

// Process aplica las líneas de una nota pendiente al stock.
func (uc *NotaUseCase) Process(ctx context.Context, kind, id string) (*NotaResult, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != entity.NotaPending {
		return nil, fmt.Errorf("%w: la nota %s está %s", domain.ErrConflict, n.Number, n.Status)
	}
	return uc.process(ctx, kind, repo, n, newOutcome())
}

// Edit reemplaza las líneas. Si la nota ya estaba procesada primero revierte sus
// movimientos; después vuelve a pendente y se procesa de nuevo.
func (uc *NotaUseCase) Edit(ctx context.Context, kind, id string, in NotaInput) (*NotaResult, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la nota necesita al menos una línea", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if err := validateNotaItem(it); err != nil {
			return nil, err
		}
	}
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status == entity.NotaCancelled {
		return nil, fmt.Errorf("%w: la nota %s está cancelada", domain.ErrConflict, n.Number)
	}

	out := newOutcome()
	if n.Status == entity.NotaProcessed {
		uc.revert(ctx, kind, n, out)
	}

	ts := strconv.FormatInt(uc.movements.now().UnixMilli(), 10)
	n.Items = notaItems(in.Items, ts)
	if in.Reason != "" {
		n.Reason = in.Reason
	}
	if in.Notes != "" {
		n.Notes = in.Notes
	}
	if in.Actor != "" {
		n.Actor = in.Actor
	}
	applyKindFields(n, kind, mergeKindFields(n, in))
	n.Status = entity.NotaPending
	n.ProcessedAt = nil
	if err := repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return uc.process(ctx, kind, repo, n, out)
}

// Cancel cancela una nota pendiente. Las procesadas no se cancelan.
func (uc *NotaUseCase) Cancel(ctx context.Context, kind, id string) (*entity.Nota, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != entity.NotaPending {
		return nil, fmt.Errorf("%w: solo se cancelan notas pendientes (estado %s)", domain.ErrConflict, n.Status)
	}
	n.Status = entity.NotaCancelled
	if err := repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Get obtiene una nota.
func (uc *NotaUseCase) Get(ctx context.Context, kind, id string) (*entity.Nota, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// List lista notas del sentido indicado, más recientes primero.
func (uc *NotaUseCase) List(ctx context.Context, kind string, f repository.NotaFilter) ([]*entity.Nota, error) {
	repo, err := uc.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, f)
}

func (uc *NotaUseCase) process(ctx context.Context, kind string, repo repository.NotaRepository, n *entity.Nota, out *StockOutcome) (*NotaResult, error) {
	now := uc.movements.now()
	n.Status = entity.NotaProcessed
	n.ProcessedAt = &now
	if err := repo.Update(ctx, n); err != nil {
		return nil, err
	}

	for _, it := range n.Items {
		itemID := notaStockItemID(it.EquipmentTypeID)
		var (
			res *MovementResult
			err error
		)
		if kind == entity.NotaInbound {
			if err = uc.ensureNotaItem(ctx, itemID, it, now); err != nil {
				out.fail(fmt.Sprintf("línea %s de la nota %s: %v", it.EquipmentTypeID, n.Number, err))
				continue
			}
			res, err = uc.movements.Inbound(ctx, InboundInput{
				StockItemID: itemID,
				Quantity:    it.Quantity,
				Actor:       n.Actor,
				Reason:      "Entrada via Nota " + n.Number,
				Invoice:     n.Invoice,
				UnitCost:    it.UnitCost,
				Supplier:    n.Supplier,
				Lot:         it.Lot,
				Notes:       "Processamento automático da nota de entrada " + n.Number,
				Context:     EventContext{NotaID: n.ID},
			})
		} else {
			if _, err = uc.stock.GetByID(ctx, itemID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					out.fail(fmt.Sprintf("item de stock %s no encontrado; línea omitida", itemID))
				} else {
					out.fail(fmt.Sprintf("línea %s de la nota %s: %v", it.EquipmentTypeID, n.Number, err))
				}
				continue
			}
			recipient := n.Recipient
			if recipient == "" {
				recipient = "Destinatário não informado"
			}
			res, err = uc.movements.Outbound(ctx, OutboundInput{
				StockItemID: itemID,
				Quantity:    it.Quantity,
				Actor:       n.Actor,
				Reason:      "Saída via Nota " + n.Number,
				Notes:       fmt.Sprintf("Processamento automático da nota de saída %s - %s", n.Number, recipient),
				Context:     EventContext{NotaID: n.ID},
			})
		}
		if err != nil {
			out.fail(fmt.Sprintf("línea %s de la nota %s: %v", it.EquipmentTypeID, n.Number, err))
			continue
		}
		out.applied(res, it.EquipmentTypeID)
	}

	result := out.finish()
	if !result.OK() {
		softErrorsTotal.WithLabelValues("nota").Add(float64(len(result.Errors)))
		uc.log.Warn().Str("nota_id", n.ID).Strs("errors", result.Errors).Msg("nota procesada con errores de stock")
	}
	return &NotaResult{Nota: n, Stock: result}, nil
}

// revert aplica el movimiento inverso de cada línea de una nota procesada.
func (uc *NotaUseCase) revert(ctx context.Context, kind string, n *entity.Nota, out *StockOutcome) {
	reason := fmt.Sprintf("Reversão da nota %s (edição)", n.Number)
	const notes = "Estorno automático para edição da nota"
	for _, it := range n.Items {
		itemID := notaStockItemID(it.EquipmentTypeID)
		var (
			res *MovementResult
			err error
		)
		if kind == entity.NotaInbound {
			res, err = uc.movements.Outbound(ctx, OutboundInput{
				StockItemID: itemID, Quantity: it.Quantity, Actor: n.Actor, Reason: reason, Notes: notes,
				Context: EventContext{NotaID: n.ID},
			})
		} else {
			res, err = uc.movements.Inbound(ctx, InboundInput{
				StockItemID: itemID, Quantity: it.Quantity, Actor: n.Actor, Reason: reason, Notes: notes,
				Context: EventContext{NotaID: n.ID},
			})
		}
		if err != nil {
			out.fail(fmt.Sprintf("reversión de %s: %v", it.EquipmentTypeID, err))
			continue
		}
		out.applied(res, it.EquipmentTypeID)
	}
}

// ensureNotaItem crea el ítem del almacén central de la nota si no existe
// (mínimo 10, validez de un año).
func (uc *NotaUseCase) ensureNotaItem(ctx context.Context, itemID string, it entity.NotaItem, now time.Time) error {
	_, err := uc.stock.GetByID(ctx, itemID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	lot := it.Lot
	if lot == "" {
		lot = "LOTE-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	item := &entity.StockItem{
		ID:              itemID,
		EquipmentTypeID: it.EquipmentTypeID,
		OwnerID:         entity.CentralWarehouseID,
		Quantity:        0,
		MinQuantity:     domaininv.DefaultMinQuantity,
		Location:        entity.CentralWarehouseLocation,
		Lot:             lot,
		ExpiryDate:      entity.FormatDate(now.AddDate(0, 0, 365)),
	}
	item.Status = domaininv.DeriveStatus(item, now)
	if err := uc.stock.Create(ctx, item); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	uc.log.Info().Str("stock_item_id", itemID).Msg("ítem de stock creado por nota de entrada")
	return nil
}

func notaStockItemID(typeID string) string {
	return "estoque_almox_" + typeID
}

func notaItems(in []NotaItemInput, ts string) []entity.NotaItem {
	items := make([]entity.NotaItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.NotaItem{
			ID:              "item_" + ts + "_" + uuid.NewString()[:5],
			EquipmentTypeID: it.EquipmentTypeID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Lot:             it.Lot,
			Notes:           it.Notes,
		})
	}
	return items
}

func applyKindFields(n *entity.Nota, kind string, in NotaInput) {
	if kind == entity.NotaInbound {
		n.Supplier = in.Supplier
		n.Invoice = in.Invoice
		total := n.ComputeTotal()
		n.TotalValue = &total
		return
	}
	n.Recipient = in.Recipient
	n.Requester = in.Requester
}

// mergeKindFields conserva los campos actuales que la edición no trae.
func mergeKindFields(n *entity.Nota, in NotaInput) NotaInput {
	if in.Supplier == "" {
		in.Supplier = n.Supplier
	}
	if in.Invoice == "" {
		in.Invoice = n.Invoice
	}
	if in.Recipient == "" {
		in.Recipient = n.Recipient
	}
	if in.Requester == "" {
		in.Requester = n.Requester
	}
	return in
}

func validateNota(in NotaInput) error {
	if strings.TrimSpace(in.Actor) == "" {
		return fmt.Errorf("%w: responsable requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return fmt.Errorf("%w: motivo requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la nota necesita al menos una línea", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if err := validateNotaItem(it); err != nil {
			return err
		}
	}
	return nil
}

func validateNotaItem(it NotaItemInput) error {
	if strings.TrimSpace(it.EquipmentTypeID) == "" {
		return fmt.Errorf("%w: tipo de EPI requerido en cada línea", domain.ErrInvalidInput)
	}
	if it.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if it.UnitCost != nil && it.UnitCost.IsNegative() {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}
