package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Service     *appprize.Service
	Display     *appprize.DisplayService
	Initializer *appprize.Initializer
	Gatherer    prometheus.Gatherer // nil = sin /metrics
	Log         *logger.Logger
	AppName     string
}

// Router registra las rutas de la API del kiosco.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	h := NewPrizeHandler(deps.Service, deps.Display, deps.Initializer)

	prizes := api.Group("/prizes")
	prizes.Get("/", h.List)
	prizes.Get("/stats", h.Stats)
	prizes.Post("/reload", h.Reload)
	prizes.Post("/", h.Create)
	prizes.Get("/:id", h.GetByID)
	prizes.Put("/:id", h.Update)
	prizes.Delete("/:id", h.Delete)
	prizes.Post("/:id/decrement", h.Decrement)

	api.Post("/draw", h.Draw)
}
