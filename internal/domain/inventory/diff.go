package inventory

// Direction sentido de un ajuste derivado de editar una entrega.
type Direction string

const (
	// DirectionOutbound se entregó más: sale stock.
	DirectionOutbound Direction = "saida"
	// DirectionInbound se entregó menos: vuelve al stock.
	DirectionInbound Direction = "entrada"
)

// Line cantidad de un tipo de EPI dentro de una entrega.
type Line struct {
	EquipmentTypeID string
	Quantity        int
}

// Adjustment movimiento neto a aplicar para un tipo.
type Adjustment struct {
	EquipmentTypeID string
	Direction       Direction
	Quantity        int
}

// Signed cantidad con signo (positiva = salida).
func (a Adjustment) Signed() int {
	if a.Direction == DirectionInbound {
		return -a.Quantity
	}
	return a.Quantity
}

// DiffLines suma cantidades por tipo en cada lado y devuelve un ajuste por cada diferencia no nula.
// diferencia = nuevo - anterior; > 0 genera salida, < 0 genera entrada.
// El orden sigue la primera aparición del tipo: primero las líneas anteriores y luego las nuevas.
func DiffLines(oldLines, newLines []Line) []Adjustment {
	order := make([]string, 0, len(oldLines)+len(newLines))
	seen := make(map[string]bool)
	oldSum := make(map[string]int)
	newSum := make(map[string]int)

	track := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, l := range oldLines {
		track(l.EquipmentTypeID)
		oldSum[l.EquipmentTypeID] += l.Quantity
	}
	for _, l := range newLines {
		track(l.EquipmentTypeID)
		newSum[l.EquipmentTypeID] += l.Quantity
	}

	var out []Adjustment
	for _, id := range order {
		diff := newSum[id] - oldSum[id]
		switch {
		case diff > 0:
			out = append(out, Adjustment{EquipmentTypeID: id, Direction: DirectionOutbound, Quantity: diff})
		case diff < 0:
			out = append(out, Adjustment{EquipmentTypeID: id, Direction: DirectionInbound, Quantity: -diff})
		}
	}
	return out
}

// NetEffect efecto neto firmado por tipo (positivo = salida) de una lista de ajustes.
func NetEffect(adjustments []Adjustment) map[string]int {
	out := make(map[string]int, len(adjustments))
	for _, a := range adjustments {
		out[a.EquipmentTypeID] += a.Signed()
	}
	return out
}
