// Package backup manages snapshot creation and restore for the catalog store.
//
// Backups are Badger's native stream format written to timestamped files in a
// single directory. Restoring replays a stream into an open store; existing
// keys are overwritten, so restore onto an empty database for an exact copy.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bookhollow/bookhollow-server/internal/store"
)

const fileExtension = ".bak"

// Service manages backup creation, listing and restore.
type Service struct {
	store     *store.Store
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup service writing into backupDir.
func NewService(s *store.Store, backupDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Result describes a completed backup.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Version  uint64        `json:"version"`
	Duration time.Duration `json:"duration"`
}

// Info describes a stored backup file.
type Info struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Create writes a full snapshot of the store to a new timestamped file.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	path := filepath.Join(s.backupDir, "backup-"+timestamp+fileExtension)

	start := time.Now()
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	version, err := s.store.Backup(f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close backup file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	result := &Result{
		Path:     path,
		Size:     stat.Size(),
		Version:  version,
		Duration: time.Since(start),
	}

	if s.logger != nil {
		s.logger.Info("Backup complete",
			"path", result.Path,
			"size", result.Size,
			"duration", result.Duration)
	}
	return result, nil
}

// List returns the stored backups, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExtension) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Name:      entry.Name(),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Delete removes a stored backup by file name. The name must not contain path
// separators.
func (s *Service) Delete(ctx context.Context, name string) error {
	if name != filepath.Base(name) || !strings.HasSuffix(name, fileExtension) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	if err := os.Remove(filepath.Join(s.backupDir, name)); err != nil {
		return fmt.Errorf("delete backup: %w", err)
	}
	return nil
}

// Restore replays a backup file into the store.
func (s *Service) Restore(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	if err := s.store.Load(f); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Restore complete", "path", path)
	}
	return nil
}
