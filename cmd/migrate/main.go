package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tabscout/internal"
	"tabscout/internal/config"
	"tabscout/internal/container"
	"tabscout/internal/dataset"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}

	ctx := context.Background()
	if err := c.InitWithDatabase(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer c.Close()
	log.Printf("Schema is up to date on %s", cfg.Database.Driver)

	// Optional backfill: migrate <import_dir>
	if len(os.Args) < 2 {
		return
	}

	files, err := findTabularFiles(os.Args[1], dataset.DefaultStorageConfig().AllowedExtensions)
	if err != nil {
		log.Fatalf("Failed to find files: %v", err)
	}
	log.Printf("Found %d files to import", len(files))

	imported, skipped := 0, 0
	for _, file := range files {
		if err := importFile(ctx, c.Processor, file); err != nil {
			log.Printf("Skipping %s: %v", file, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import completed: %d imported, %d skipped", imported, skipped)
}

func findTabularFiles(dir string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, allowed := range extensions {
			if ext == allowed {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, err
}

func importFile(ctx context.Context, processor *dataset.Processor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	record, err := processor.ProcessUpload(ctx, &dataset.Upload{
		FileName: filepath.Base(path),
		Content:  f,
		Size:     info.Size(),
	})
	if err != nil {
		return err
	}
	log.Printf("Imported %s as %s", path, record.ID)
	return nil
}
