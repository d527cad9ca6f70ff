package prize

import (
	"fmt"
	"strings"

	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// CheckIntegrity verifica cada registro cargado: id y name no vacíos, stock >= 0
// y createdAt >= 0. Devuelve ErrCorruptData envuelto con el primer registro inválido.
// imageUrl vacío es válido; la ausencia de campos se detecta antes, en DecodeRecord.
func CheckIntegrity(prizes []entity.Prize) error {
	for i, p := range prizes {
		switch {
		case strings.TrimSpace(p.ID) == "":
			return fmt.Errorf("registro %d sin id: %w", i, domain.ErrCorruptData)
		case strings.TrimSpace(p.Name) == "":
			return fmt.Errorf("registro %d (%s) sin nombre: %w", i, p.ID, domain.ErrCorruptData)
		case p.Stock < 0:
			return fmt.Errorf("registro %d (%s) con stock negativo: %w", i, p.ID, domain.ErrCorruptData)
		case p.CreatedAt < 0:
			return fmt.Errorf("registro %d (%s) con createdAt inválido: %w", i, p.ID, domain.ErrCorruptData)
		}
	}
	return nil
}
