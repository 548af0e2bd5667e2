package inventory

import "github.com/jhoicas/epi-control-api/internal/domain/entity"

// Estados del resultado secundario (stock) de un flujo compuesto.
const (
	OutcomeApplied = "applied"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// AppliedMovement resumen de un movimiento aplicado por un flujo.
type AppliedMovement struct {
	StockItemID     string `json:"stock_item_id"`
	EquipmentTypeID string `json:"equipment_type_id"`
	Equipment       string `json:"equipment"`
	Kind            string `json:"kind"`
	Quantity        int    `json:"quantity"`
	Previous        int    `json:"previous_quantity"`
	Current         int    `json:"current_quantity"`
	Lot             string `json:"lot,omitempty"`
}

// StockOutcome resultado de la parte de stock de un flujo. El registro principal
// (entrega, ficha, tipo de EPI) se conserva aunque esta parte falle.
type StockOutcome struct {
	Status    string            `json:"status"`
	Movements []AppliedMovement `json:"movements"`
	Errors    []string          `json:"errors"`
}

func newOutcome() *StockOutcome {
	return &StockOutcome{Movements: []AppliedMovement{}, Errors: []string{}}
}

func (o *StockOutcome) applied(res *MovementResult, equipment string) {
	o.Movements = append(o.Movements, AppliedMovement{
		StockItemID:     res.Item.ID,
		EquipmentTypeID: res.Item.EquipmentTypeID,
		Equipment:       equipment,
		Kind:            res.Movement.Kind,
		Quantity:        res.Movement.Quantity,
		Previous:        res.Movement.PreviousQuantity,
		Current:         res.Movement.CurrentQuantity,
		Lot:             res.Item.Lot,
	})
}

func (o *StockOutcome) fail(msg string) {
	o.Errors = append(o.Errors, msg)
}

// finish calcula el estado final y lo devuelve por valor.
func (o *StockOutcome) finish() StockOutcome {
	switch {
	case len(o.Errors) == 0 && len(o.Movements) == 0:
		o.Status = OutcomeSkipped
	case len(o.Errors) == 0:
		o.Status = OutcomeApplied
	case len(o.Movements) == 0:
		o.Status = OutcomeFailed
	default:
		o.Status = OutcomePartial
	}
	return *o
}

// Failed resultado con un único error general.
func Failed(msg string) StockOutcome {
	o := newOutcome()
	o.fail(msg)
	return o.finish()
}

// OK indica si no hubo errores.
func (o StockOutcome) OK() bool {
	return len(o.Errors) == 0
}

// removedItem resumen para ítems eliminados por la sincronización del catálogo.
func removedItem(item *entity.StockItem, equipment string) AppliedMovement {
	return AppliedMovement{
		StockItemID:     item.ID,
		EquipmentTypeID: item.EquipmentTypeID,
		Equipment:       equipment,
		Kind:            "eliminado",
		Previous:        item.Quantity,
		Current:         item.Quantity,
		Lot:             item.Lot,
	}
}
