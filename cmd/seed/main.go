package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dungpasoftware/van-edu-be/internal/config"
	"github.com/dungpasoftware/van-edu-be/internal/infra/db/migrations"
	pg "github.com/dungpasoftware/van-edu-be/internal/infra/db/postgres"
	"github.com/dungpasoftware/van-edu-be/internal/infra/logging"
	"github.com/dungpasoftware/van-edu-be/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := migrations.Run(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	packageUC := usecase.NewPackageUseCase(pg.NewPackageRepo(pool), logger)

	created, err := packageUC.SeedDefaults(ctx)
	if err != nil {
		log.Fatalf("seed packages: %v", err)
	}
	if created == 0 {
		fmt.Println("packages already present, no changes")
		return
	}

	pkgs, err := packageUC.List(ctx)
	if err != nil {
		log.Fatalf("list packages: %v", err)
	}
	for _, p := range pkgs {
		if p.DurationDays != nil {
			fmt.Printf("seeded: %s (type=%s, days=%d, price=%.2f)\n", p.Name, p.Type, *p.DurationDays, p.Price)
		} else {
			fmt.Printf("seeded: %s (type=%s, lifetime, price=%.2f)\n", p.Name, p.Type, p.Price)
		}
	}
	fmt.Printf("seeding complete: %d packages created\n", created)
}
