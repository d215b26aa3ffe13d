// seed crea una empresa demo (admin, manager, empleados, leads, deals, pagos y facturas)
// usando los mismos casos de uso que la API.
//
// Uso: go run ./cmd/seed [-company "Grow Tenders Demo"] [-domain demo.growtenders.in] [-password demo12345]
// Lee la conexión de las mismas variables que cmd/api (DB_DRIVER, DATABASE_URL, ...).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/bootstrap"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	infrapdf "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/pdf"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/seed"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/config"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/logger"
)

func main() {
	company := flag.String("company", "Grow Tenders Demo", "nombre de la empresa")
	emailDomain := flag.String("domain", "demo.growtenders.in", "dominio de los emails")
	password := flag.String("password", "demo12345", "password de todos los usuarios (min 8)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "DB_DRIVER=memory no persiste: use SEED_DEMO=true con cmd/api")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})
	ctx := log.WithContext(context.Background())

	repos, err := bootstrap.OpenRepositories(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer repos.Close()

	ucs := bootstrap.NewUseCases(cfg, repos, bootstrap.PDFDeps{Generator: infrapdf.NewMarotoPDFGenerator()})
	res, err := seed.Run(ctx, ucs.SeedUseCases(), seed.Options{
		CompanyName: *company,
		Domain:      *emailDomain,
		Password:    *password,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Warn().Str("domain", *emailDomain).Msg("la empresa demo ya existe, nada que hacer")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("seed")
		os.Exit(1)
	}

	emails := make([]string, 0, len(res.Users))
	for e := range res.Users {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	fmt.Printf("Empresa %s creada (id %s)\n", *company, res.CompanyID)
	for _, e := range emails {
		fmt.Printf("  %-12s %s\n", res.Users[e], e)
	}
}
