package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epi_stock_movements_total",
		Help: "Movimientos de stock aplicados por tipo.",
	}, []string{"kind"})

	unitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epi_stock_units_total",
		Help: "Unidades movidas por sentido (entrada, saida).",
	}, []string{"direction"})

	negativeStockTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epi_stock_negative_total",
		Help: "Salidas que dejaron un ítem con cantidad negativa.",
	})

	softErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epi_stock_soft_errors_total",
		Help: "Errores de stock registrados sin abortar el flujo principal.",
	}, []string{"workflow"})
)
