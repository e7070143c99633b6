package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"feteer-storefront/internal/config"
	"feteer-storefront/internal/database"
)

// migrate creates the postgres session schema using the regular storefront
// configuration (DB_* variables or CONFIG_PATH).
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query current database: %w", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	fmt.Printf("Session schema is up to date in database: %s\n", dbName)
	return nil
}
