package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
)

// PrizeHandler maneja las peticiones HTTP del kiosco para premios.
type PrizeHandler struct {
	svc     *appprize.Service
	display *appprize.DisplayService
	loader  *appprize.Initializer
}

// NewPrizeHandler construye el handler.
func NewPrizeHandler(svc *appprize.Service, display *appprize.DisplayService, loader *appprize.Initializer) *PrizeHandler {
	return &PrizeHandler{svc: svc, display: display, loader: loader}
}

// List godoc
// @Summary      Listar premios con probabilidad y rareza
// @Tags         prizes
// @Produce      json
// @Param        sort                  query  string  false  "order|stock|probability|created|name"
// @Param        dir                   query  string  false  "asc|desc"
// @Param        rarity                query  string  false  "niveles separados por coma"
// @Param        include_out_of_stock  query  bool    false  "incluir agotados"  default(true)
// @Param        lang                  query  string  false  "locale para ordenar por nombre (BCP 47)"
// @Success      200  {array}   entity.PrizeDisplayInfo
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/prizes [get]
func (h *PrizeHandler) List(c *fiber.Ctx) error {
	key, ok := domainprize.ParseSortKey(c.Query("sort"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sort inválido"})
	}
	opts := appprize.ListOptions{
		Sort: domainprize.SortOptions{
			Key:        key,
			Descending: strings.EqualFold(c.Query("dir"), "desc"),
		},
		Filter: domainprize.FilterOptions{
			IncludeOutOfStock: c.QueryBool("include_out_of_stock", true),
		},
	}
	if raw := c.Query("lang"); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lang inválido"})
		}
		opts.Sort.Locale = tag
	}
	if raw := c.Query("rarity"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				opts.Filter.Rarities = append(opts.Filter.Rarities, r)
			}
		}
	}
	return c.JSON(h.display.List(opts))
}

// GetByID godoc
// @Summary      Obtener premio por ID
// @Tags         prizes
// @Produce      json
// @Param        id   path  string  true  "ID del premio"
// @Success      200  {object}  entity.PrizeDisplayInfo
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prizes/{id} [get]
func (h *PrizeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.display.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de inventario
// @Tags         prizes
// @Produce      json
// @Success      200  {object}  entity.PrizeStats
// @Router       /api/prizes/stats [get]
func (h *PrizeHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.display.Stats())
}

// Create godoc
// @Summary      Crear premio
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePrizeRequest  true  "Datos del premio"
// @Success      201   {object}  entity.Prize
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/prizes [post]
func (h *PrizeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePrizeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.svc.AddPrize(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar premio (parcial)
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del premio"
// @Param        body  body  dto.UpdatePrizeRequest  true  "Campos a actualizar"
// @Success      200   {object}  entity.Prize
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/prizes/{id} [put]
func (h *PrizeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePrizeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.ID = c.Params("id")
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name no puede quedar vacío"})
	}
	out, err := h.svc.UpdatePrize(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar premio
// @Tags         prizes
// @Param        id   path  string  true  "ID del premio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/prizes/{id} [delete]
func (h *PrizeHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeletePrize(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Decrement godoc
// @Summary      Descontar una unidad de stock
// @Tags         prizes
// @Produce      json
// @Param        id   path  string  true  "ID del premio"
// @Success      200  {object}  dto.DecrementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/prizes/{id}/decrement [post]
func (h *PrizeHandler) Decrement(c *fiber.Ctx) error {
	id := c.Params("id")
	stock, err := h.svc.DecrementStock(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DecrementResponse{ID: id, Stock: stock})
}

// Draw godoc
// @Summary      Sortear un premio y descontar su stock
// @Tags         draw
// @Produce      json
// @Success      200  {object}  dto.DrawResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/draw [post]
func (h *PrizeHandler) Draw(c *fiber.Ctx) error {
	p, ok := h.svc.DrawPrize()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_PRIZE", Message: "no quedan premios"})
	}
	remaining, err := h.svc.DecrementStock(c.UserContext(), p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DrawResponse{Prize: *p, RemainingStock: remaining})
}

// Reload godoc
// @Summary      Recargar premios desde el backend
// @Tags         prizes
// @Produce      json
// @Success      200  {object}  dto.InitResultDTO
// @Router       /api/prizes/reload [post]
func (h *PrizeHandler) Reload(c *fiber.Ctx) error {
	return c.JSON(h.loader.Run(c.UserContext()))
}
