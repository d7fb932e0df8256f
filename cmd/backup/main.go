// Package main provides a tool to snapshot and restore the catalog database.
//
// Usage:
//
//	go run ./cmd/backup --db ~/BookHollow/data/db --dir ~/BookHollow/backups
//	go run ./cmd/backup --db ~/BookHollow/data/db --restore backup-2026-01-02-150405.bak
//	go run ./cmd/backup --db ~/BookHollow/data/db --list
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bookhollow/bookhollow-server/internal/backup"
	"github.com/bookhollow/bookhollow-server/internal/store"
)

var (
	dbPath      = flag.String("db", "", "Path to the badger database directory")
	backupDir   = flag.String("dir", "", "Directory for backup files (default: <db>/../backups)")
	restoreFile = flag.String("restore", "", "Backup file to restore instead of creating one")
	list        = flag.Bool("list", false, "List stored backups and exit")
)

func main() {
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = os.Getenv("DB_PATH")
	}
	if path == "" {
		path = os.ExpandEnv("$HOME/BookHollow/data/db")
	}

	dir := *backupDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(path), "backups")
	}

	s, err := store.New(path, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	svc := backup.NewService(s, dir, nil)
	ctx := context.Background()

	switch {
	case *list:
		backups, err := svc.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list backups: %v", err)
		}
		if len(backups) == 0 {
			fmt.Println("No backups found")
			return
		}
		for _, b := range backups {
			fmt.Printf("%s\t%d bytes\t%s\n", b.Name, b.Size, b.CreatedAt.Format("2006-01-02 15:04:05"))
		}

	case *restoreFile != "":
		target := *restoreFile
		if target == filepath.Base(target) {
			target = filepath.Join(dir, target)
		}
		if err := svc.Restore(ctx, target); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Printf("Restored from %s\n", target)

	default:
		result, err := svc.Create(ctx)
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Printf("Backup written to %s (%d bytes in %s)\n", result.Path, result.Size, result.Duration)
	}
}
