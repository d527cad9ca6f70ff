package prize

import "github.com/jhoicas/gacha-api/internal/domain/entity"

// NormalizeStock aplica 0 <= stock <= totalStock (servicio de dominio).
// Sin totalStock se toma el stock recibido; si stock supera el cupo se recorta al cupo,
// nunca se sube el cupo. Los negativos se llevan a 0 en silencio.
func NormalizeStock(stock int, totalStock *int) (int, int) {
	if stock < 0 {
		stock = 0
	}
	total := stock
	if totalStock != nil {
		total = *totalStock
		if total < 0 {
			total = 0
		}
	}
	if stock > total {
		stock = total
	}
	return stock, total
}

// NextOrder devuelve max(order existentes)+1, o 1 con la colección vacía.
func NextOrder(prizes []entity.Prize) float64 {
	if len(prizes) == 0 {
		return 1
	}
	maxOrder := prizes[0].Order
	for _, p := range prizes[1:] {
		if p.Order > maxOrder {
			maxOrder = p.Order
		}
	}
	return maxOrder + 1
}

// IndexOf posición de id en la colección, o -1.
func IndexOf(prizes []entity.Prize, id string) int {
	for i, p := range prizes {
		if p.ID == id {
			return i
		}
	}
	return -1
}
