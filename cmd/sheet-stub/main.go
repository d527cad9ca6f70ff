package main

import (
	"os"

	"github.com/jhoicas/gacha-api/internal/interfaces/sheetstub"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// Servidor local que imita el script de la hoja de premios (REMOTE_URL=http://localhost:8090/).
func main() {
	addr := os.Getenv("SHEET_STUB_ADDR")
	if addr == "" {
		addr = ":8090"
	}
	log := logger.New(logger.Config{Env: "development", Level: "info", Service: "sheet-stub"})

	app := sheetstub.New(sheetstub.NewSheet())
	log.Info().Str("addr", addr).Msg("stub de hoja de premios escuchando")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("stub finalizado")
	}
}
