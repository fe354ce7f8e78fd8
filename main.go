package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"shopsight/app"
	"shopsight/config"
	"shopsight/database"
	"shopsight/seed"
)

func main() {
	seedFlag := flag.Bool("seed", false, "load the synthetic demo dataset and exit")
	whaleFlag := flag.Bool("whale", false, "inject a whale day into the seed data")
	randSeed := flag.Int64("rand-seed", 1, "rng seed for deterministic demo data")
	flag.Parse()

	// Load config from .env file
	cfg := config.LoadFromEnv()

	if *seedFlag {
		if err := runSeed(cfg, *whaleFlag, *randSeed); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}

func runSeed(cfg *config.Config, whale bool, randSeed int64) error {
	dbPort, err := strconv.Atoi(cfg.DatabasePort)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseHost, dbPort, cfg.DatabaseName, cfg.DatabaseUser, cfg.DatabasePassword)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		return err
	}

	pool, err := database.NewPool(database.PoolConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		DBName:   cfg.DatabaseName,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	opts := seed.DefaultOptions()
	opts.Whale = whale
	opts.RandSeed = randSeed

	ds := seed.Generate(opts)
	if err := seed.Insert(context.Background(), pool, ds); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d products, %d users, %d clicks, %d purchases",
		len(ds.Products), len(ds.Users), len(ds.Clicks), len(ds.Purchases))
	return nil
}
