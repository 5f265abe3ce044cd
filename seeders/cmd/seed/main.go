package main

import (
	"context"
	"flag"
	"log"

	"porter-system/pkg/config"
	"porter-system/pkg/database/postgresql"
	"porter-system/seeders"
)

func main() {
	runDirectory := flag.Bool("directory", false, "seed floors, zones and rooms")
	runStaff := flag.Bool("staff", false, "seed demo staff accounts")
	runEquipment := flag.Bool("equipment", false, "seed equipment units")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runDirectory && !*runStaff && !*runEquipment && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN, "migrations"); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	if *runAll || *runDirectory {
		seeders.SeedDirectory(db)
	}
	if *runAll || *runStaff {
		seeders.SeedStaff(db)
	}
	if *runAll || *runEquipment {
		seeders.SeedEquipment(db)
	}

	log.Println("done")
}
