package inventory

import "github.com/shopspring/decimal"

// WeightedUnitCost costo promedio ponderado tras una entrada con costo conocido.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock negativo se trata como cero: esas unidades ya salieron sin costo asignado.
func WeightedUnitCost(currentQty int, currentCost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	if currentQty < 0 {
		currentQty = 0
	}
	stock := decimal.NewFromInt(int64(currentQty))
	entry := decimal.NewFromInt(int64(inQty))
	sum := stock.Add(entry)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stock.Mul(currentCost).Add(entry.Mul(inCost))
	return num.Div(sum).Round(4)
}
