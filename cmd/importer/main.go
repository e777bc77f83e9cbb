package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"retail-console/internal/config"
	"retail-console/internal/importer"
	"retail-console/internal/upstream"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	client := upstream.New(cfg.UpstreamBaseURL, logger)

	token := os.Getenv("BACKEND_TOKEN")
	if token == "" {
		email := os.Getenv("ADMIN_EMAIL")
		password := os.Getenv("ADMIN_PASSWORD")
		if email == "" || password == "" {
			logger.Fatal("set BACKEND_TOKEN, or ADMIN_EMAIL and ADMIN_PASSWORD")
		}
		resp, err := client.AdminLogin(ctx, email, password)
		if err != nil {
			logger.Fatalf("admin login: %v", err)
		}
		token = resp.Token
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, client, token)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", count, err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
