package sheets

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// Columnas de la hoja, en orden. La fila 0 es el encabezado.
const (
	ColID = iota
	ColName
	ColImageURL
	ColStock
	ColTotalStock
	ColDescription
	ColOrder
	ColCreatedAt
	NumColumns
)

// Header encabezado de la hoja de premios.
var Header = []any{"id", "name", "imageUrl", "stock", "totalStock", "description", "order", "createdAt"}

// EncodeRow convierte un premio en una fila de 8 celdas.
func EncodeRow(p entity.Prize) []any {
	row := make([]any, NumColumns)
	row[ColID] = p.ID
	row[ColName] = p.Name
	row[ColImageURL] = p.ImageURL
	row[ColStock] = p.Stock
	row[ColTotalStock] = p.Capacity()
	row[ColDescription] = p.Description
	row[ColOrder] = p.Order
	row[ColCreatedAt] = p.CreatedAt
	return row
}

// DecodeRow interpreta una fila. Las celdas pueden venir como número o texto (así las entrega la hoja);
// totalStock vacío queda nil.
func DecodeRow(row []any) (entity.Prize, error) {
	if len(row) < NumColumns {
		padded := make([]any, NumColumns)
		copy(padded, row)
		row = padded
	}
	var p entity.Prize
	var err error
	if p.ID, err = cast.ToStringE(row[ColID]); err != nil {
		return p, fmt.Errorf("columna id: %w", err)
	}
	p.Name = cast.ToString(row[ColName])
	p.ImageURL = cast.ToString(row[ColImageURL])
	p.Description = cast.ToString(row[ColDescription])
	if p.Stock, err = cast.ToIntE(emptyAsZero(row[ColStock])); err != nil {
		return p, fmt.Errorf("columna stock de %s: %w", p.ID, err)
	}
	if !isEmpty(row[ColTotalStock]) {
		total, err := cast.ToIntE(row[ColTotalStock])
		if err != nil {
			return p, fmt.Errorf("columna totalStock de %s: %w", p.ID, err)
		}
		p.TotalStock = &total
	}
	if p.Order, err = cast.ToFloat64E(emptyAsZero(row[ColOrder])); err != nil {
		return p, fmt.Errorf("columna order de %s: %w", p.ID, err)
	}
	if p.CreatedAt, err = cast.ToInt64E(emptyAsZero(row[ColCreatedAt])); err != nil {
		return p, fmt.Errorf("columna createdAt de %s: %w", p.ID, err)
	}
	return p, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func emptyAsZero(v any) any {
	if isEmpty(v) {
		return 0
	}
	return v
}
