package entity

// Prize representa un premio del catálogo de la máquina gacha.
// Stock es lo que queda; TotalStock es el cupo original usado como denominador
// (nil en datos heredados, en cuyo caso se toma Stock).
type Prize struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description,omitempty"`
	Stock       int     `json:"stock"`
	TotalStock  *int    `json:"totalStock,omitempty"`
	Order       float64 `json:"order,omitempty"` // 0 = sin asignar; los órdenes empiezan en 1
	CreatedAt   int64   `json:"createdAt"`       // epoch en milisegundos
}

// Capacity devuelve TotalStock, o Stock cuando TotalStock no está definido.
func (p Prize) Capacity() int {
	if p.TotalStock != nil {
		return *p.TotalStock
	}
	return p.Stock
}

// Available indica si el premio puede salir en un sorteo.
func (p Prize) Available() bool { return p.Stock > 0 }

// Clone copia el premio sin compartir el puntero de TotalStock.
func (p Prize) Clone() Prize {
	if p.TotalStock != nil {
		ts := *p.TotalStock
		p.TotalStock = &ts
	}
	return p
}

// ClonePrizes copia una colección completa (snapshot independiente).
func ClonePrizes(prizes []Prize) []Prize {
	out := make([]Prize, len(prizes))
	for i, p := range prizes {
		out[i] = p.Clone()
	}
	return out
}

// PrizeStats agregados sobre la colección actual.
type PrizeStats struct {
	TotalCount         int `json:"totalCount"`
	AvailableCount     int `json:"availableCount"`
	OutOfStockCount    int `json:"outOfStockCount"`
	RemainingStock     int `json:"remainingStock"`
	TotalStockCapacity int `json:"totalStockCapacity"`
}

// ComputeStats calcula los agregados de una colección.
func ComputeStats(prizes []Prize) PrizeStats {
	var s PrizeStats
	s.TotalCount = len(prizes)
	for _, p := range prizes {
		if p.Available() {
			s.AvailableCount++
		} else {
			s.OutOfStockCount++
		}
		s.RemainingStock += p.Stock
		s.TotalStockCapacity += p.Capacity()
	}
	return s
}

// PrizeDisplayInfo vista derivada de un premio; se recalcula en cada lectura y nunca se persiste.
type PrizeDisplayInfo struct {
	Prize       Prize   `json:"prize"`
	Probability float64 `json:"probability"` // porcentaje 0–100
	Rarity      string  `json:"rarity"`
	IsLowStock  bool    `json:"isLowStock"`
}
