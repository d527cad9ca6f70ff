package prize

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// RequiredFields campos que todo registro persistido debe traer con valor no nulo.
var RequiredFields = []string{"id", "name", "imageUrl", "stock", "createdAt"}

// DecodeRecords interpreta registros JSON genéricos (local o remoto). Un campo requerido
// ausente o nulo, o un valor no convertible, devuelve ErrCorruptData envuelto.
func DecodeRecords(records []map[string]any) ([]entity.Prize, error) {
	out := make([]entity.Prize, 0, len(records))
	for i, rec := range records {
		p, err := DecodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("registro %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// DecodeRecord convierte un registro. Los números pueden venir como texto (celdas de la hoja).
func DecodeRecord(rec map[string]any) (entity.Prize, error) {
	var p entity.Prize
	for _, field := range RequiredFields {
		if v, ok := rec[field]; !ok || v == nil {
			return p, fmt.Errorf("falta el campo %s: %w", field, domain.ErrCorruptData)
		}
	}

	var err error
	if p.ID, err = cast.ToStringE(rec["id"]); err != nil {
		return p, corruptField("id", err)
	}
	if p.Name, err = cast.ToStringE(rec["name"]); err != nil {
		return p, corruptField("name", err)
	}
	if p.ImageURL, err = cast.ToStringE(rec["imageUrl"]); err != nil {
		return p, corruptField("imageUrl", err)
	}
	if p.Stock, err = cast.ToIntE(rec["stock"]); err != nil {
		return p, corruptField("stock", err)
	}
	if p.CreatedAt, err = cast.ToInt64E(rec["createdAt"]); err != nil {
		return p, corruptField("createdAt", err)
	}

	if v := rec["description"]; v != nil {
		if p.Description, err = cast.ToStringE(v); err != nil {
			return p, corruptField("description", err)
		}
	}
	if v := rec["totalStock"]; v != nil && v != "" {
		total, err := cast.ToIntE(v)
		if err != nil {
			return p, corruptField("totalStock", err)
		}
		p.TotalStock = &total
	}
	if v := rec["order"]; v != nil && v != "" {
		if p.Order, err = cast.ToFloat64E(v); err != nil {
			return p, corruptField("order", err)
		}
	}
	return p, nil
}

func corruptField(field string, err error) error {
	return fmt.Errorf("campo %s: %v: %w", field, err, domain.ErrCorruptData)
}
