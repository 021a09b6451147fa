package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sentinal-delivery/config"
	"sentinal-delivery/internal/repository"
	"sentinal-delivery/pkg/database"
)

const usage = `
Sentinal Delivery - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Create or update the messages table
  status      Show database connection status
  truncate    Truncate the messages table (DANGEROUS)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	case "truncate":
		runTruncate()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("Running migrations UP...")

	if err := database.Migrate(&repository.MessageRecord{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	table := repository.MessageRecord{}.TableName()
	count, err := database.TableCount(table)
	if err != nil {
		log.Printf("Table %s: %v", table, err)
		return
	}
	log.Printf("Table %-20s exists (%d rows)", table, count)
}

func runTruncate() {
	log.Println("WARNING: This will TRUNCATE the messages table!")

	if err := database.Truncate(repository.MessageRecord{}.TableName()); err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}

	log.Println("Messages table truncated")
}
