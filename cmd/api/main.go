package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/internal/infrastructure/local"
	"github.com/jhoicas/gacha-api/internal/infrastructure/metrics"
	"github.com/jhoicas/gacha-api/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/gacha-api/internal/interfaces/http"
	"github.com/jhoicas/gacha-api/pkg/config"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Bool("remote", cfg.Backend.UseRemote()).
		Str("store_driver", cfg.Store.Driver).
		Msg("iniciando kiosco")

	ctx := context.Background()
	kvStore, err := openKeyValueStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento local")
	}
	defer kvStore.Close()

	// El backend local siempre existe: es el destino de limpieza cuando los datos no son íntegros.
	localBackend := local.NewPrizeBackend(kvStore, log.Named("local"))
	var backend repository.PrizeBackend = localBackend
	if cfg.Backend.UseRemote() {
		backend = sheets.NewClient(cfg.Backend.RemoteURL, cfg.Backend.Timeout, log.Named("sheets"))
	} else if cfg.Backend.RemoteEnabled {
		log.Warn().Msg("REMOTE_ENABLED sin REMOTE_URL: se usa el backend local")
	}

	tiers, err := domainprize.ParseTiers(cfg.Display.RarityTiers)
	if err != nil {
		log.Fatal().Err(err).Msg("RARITY_TIERS")
	}
	rarity, err := domainprize.NewRarityClassifier(tiers)
	if err != nil {
		log.Fatal().Err(err).Msg("RARITY_TIERS")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prizeMetrics := metrics.NewPrizeMetrics(registry)

	store := appprize.NewStore()
	store.Subscribe(prizeMetrics.ObserveCollection)

	svc := appprize.NewService(store, backend, log.Named("prizes")).WithMetrics(prizeMetrics)
	display := appprize.NewDisplayService(store, rarity, cfg.Display.LowStockRatio)
	initializer := appprize.NewInitializer(svc, localBackend, cfg.Backend.UseRemote(), log.Named("init"))

	if res := initializer.Run(ctx); res.Error != nil {
		log.Warn().
			Str("title", res.Error.Title).
			Str("message", res.Error.Message).
			Msg("el kiosco arranca con la lista vacía")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Service:     svc,
		Display:     display,
		Initializer: initializer,
		Gatherer:    registry,
		Log:         log.Named("http"),
		AppName:     cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("kiosco detenido")
}
