// migrate aplica o revierte las migraciones embebidas del esquema.
//
// Uso: go run ./cmd/migrate [up|down]
// Por defecto ejecuta up. Lee la conexión de las mismas variables que la API.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() { _ = m.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		fmt.Fprintf(os.Stderr, "Dirección desconocida %q (use up o down)\n", direction)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("direction", direction).Msg("migraciones")
		os.Exit(1)
	}
}
