// Package sheetstub emula el script remoto de la hoja de cálculo: un único endpoint con GET
// para leer la hoja y POST {action} para escribir. Se usa en desarrollo local (cmd/sheet-stub)
// y en los tests del cliente remoto.
package sheetstub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
	"github.com/jhoicas/gacha-api/internal/infrastructure/sheets"
)

// Sheet hoja en memoria; la fila 0 es el encabezado.
type Sheet struct {
	mu   sync.Mutex
	rows [][]any
}

// NewSheet crea una hoja con encabezado y los premios dados.
func NewSheet(prizes ...entity.Prize) *Sheet {
	s := &Sheet{rows: [][]any{append([]any(nil), sheets.Header...)}}
	for _, p := range prizes {
		s.rows = append(s.rows, sheets.EncodeRow(p))
	}
	return s
}

// Prizes decodifica todas las filas (salta encabezado y filas sin id).
func (s *Sheet) Prizes() ([]entity.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodeLocked()
}

func (s *Sheet) decodeLocked() ([]entity.Prize, error) {
	out := make([]entity.Prize, 0, len(s.rows))
	for _, row := range s.rows[1:] {
		p, err := sheets.DecodeRow(row)
		if err != nil {
			return nil, err
		}
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Sheet) findLocked(id string) int {
	for i := 1; i < len(s.rows); i++ {
		if len(s.rows[i]) > sheets.ColID && s.rows[i][sheets.ColID] == id {
			return i
		}
	}
	return -1
}

type request struct {
	Action string                     `json:"action"`
	Data   map[string]json.RawMessage `json:"data"`
	ID     string                     `json:"id"`
}

// fieldColumns columnas que una actualización parcial puede tocar.
var fieldColumns = map[string]int{
	"name":        sheets.ColName,
	"imageUrl":    sheets.ColImageURL,
	"stock":       sheets.ColStock,
	"totalStock":  sheets.ColTotalStock,
	"description": sheets.ColDescription,
	"order":       sheets.ColOrder,
}

// New construye la app fiber del stub. Como el script real, responde 200 incluso
// ante errores lógicos y los informa en el campo "error".
func New(sheet *Sheet) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/", func(c *fiber.Ctx) error {
		prizes, err := sheet.Prizes()
		if err != nil {
			return c.JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"prizes": prizes})
	})

	app.Post("/", func(c *fiber.Ctx) error {
		var req request
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.JSON(fiber.Map{"error": "Invalid JSON"})
		}
		sheet.mu.Lock()
		defer sheet.mu.Unlock()

		switch req.Action {
		case sheets.ActionAdd:
			return sheet.addLocked(c, req)
		case sheets.ActionUpdate:
			return sheet.updateLocked(c, req)
		case sheets.ActionDelete:
			idx := sheet.findLocked(req.ID)
			if idx < 0 {
				return c.JSON(fiber.Map{"error": "Prize not found"})
			}
			sheet.rows = append(sheet.rows[:idx], sheet.rows[idx+1:]...)
			return c.JSON(fiber.Map{"success": true})
		case sheets.ActionDecrement:
			idx := sheet.findLocked(req.ID)
			if idx < 0 {
				return c.JSON(fiber.Map{"error": "Prize not found"})
			}
			p, err := sheets.DecodeRow(sheet.rows[idx])
			if err != nil {
				return c.JSON(fiber.Map{"error": err.Error()})
			}
			newStock := max(0, p.Stock-1)
			sheet.rows[idx][sheets.ColStock] = newStock
			return c.JSON(fiber.Map{"success": true, "newStock": newStock})
		default:
			return c.JSON(fiber.Map{"error": "Unknown action"})
		}
	})

	return app
}

func (s *Sheet) addLocked(c *fiber.Ctx, req request) error {
	raw, err := json.Marshal(req.Data)
	if err != nil {
		return c.JSON(fiber.Map{"error": err.Error()})
	}
	var p entity.Prize
	if err := json.Unmarshal(raw, &p); err != nil {
		return c.JSON(fiber.Map{"error": "Invalid prize data"})
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	if s.findLocked(p.ID) >= 0 {
		return c.JSON(fiber.Map{"error": "Duplicate id"})
	}
	s.rows = append(s.rows, sheets.EncodeRow(p))
	return c.JSON(fiber.Map{"success": true, "prize": p})
}

func (s *Sheet) updateLocked(c *fiber.Ctx, req request) error {
	var id string
	if raw, ok := req.Data["id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return c.JSON(fiber.Map{"error": "Invalid id"})
		}
	}
	idx := s.findLocked(id)
	if idx < 0 {
		return c.JSON(fiber.Map{"error": "Prize not found"})
	}
	row := s.rows[idx]
	for field, col := range fieldColumns {
		raw, ok := req.Data[field]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return c.JSON(fiber.Map{"error": "Invalid field " + field})
		}
		row[col] = v
	}
	return c.JSON(fiber.Map{"success": true})
}
