package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStockNotEmpty     = errors.New("el ítem de stock todavía tiene cantidad")
	ErrDeliveryLocked    = errors.New("la entrega ya fue firmada y no puede modificarse")
	ErrStoreUnavailable  = errors.New("no fue posible conectar con el servidor de datos")
)
