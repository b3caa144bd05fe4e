package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Session Data")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all put-away and return sessions")
	fmt.Println("  - Clear rack stock levels")
	fmt.Println("  - Set purchase orders back to pending and returns back to open")
	fmt.Println()
	fmt.Println("Warehouses, racks, purchase orders and return references are kept.")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	godotenv.Load()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "warehouse_db"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		"TRUNCATE putaway_session_items, putaway_sessions, return_session_items, return_sessions, stock_levels",
		"UPDATE purchase_orders SET status = 'pending', updated_at = NOW()",
		"UPDATE return_references SET status = 'open', updated_at = NOW()",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			log.Fatalf("%s: %v", stmt, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("Session data reset.")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
