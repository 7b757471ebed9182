// Package maintenance provides background housekeeping goroutines for
// SoundKeeper: periodic device rescans and daily state-file backups.
package maintenance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	rescanInterval = 5 * time.Minute
	backupMaxAge   = 90 * 24 * time.Hour
)

// Service manages background maintenance goroutines.
type Service struct {
	statePath string             // path of the JSON state file to back up
	rescan    func(context.Context) // callback to refresh the device inventory
}

// New creates a new maintenance Service. statePath is the state file to
// back up; rescan is invoked on each rescan tick and may be nil.
func New(statePath string, rescan func(context.Context)) *Service {
	return &Service{
		statePath: statePath,
		rescan:    rescan,
	}
}

// Start launches all background maintenance goroutines.
// Blocks until ctx is cancelled; all goroutines respect the context.
func (s *Service) Start(ctx context.Context) {
	go s.runRescan(ctx)
	go s.runBackup(ctx)

	// Block until cancelled
	<-ctx.Done()
}

// RunBackupNow performs a backup immediately and returns the backup file path or error.
func (s *Service) RunBackupNow() (string, error) {
	return backupStateFile(s.statePath)
}

// ListBackups returns available backup files sorted by name (newest last).
func ListBackups() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	backupDir := filepath.Join(home, "backups")

	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "soundkeeper-state-") && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(backupDir, e.Name()))
		}
	}
	return files, nil
}

// runRescan refreshes the device inventory every few minutes so zone pages
// show current reachability without anyone pressing the scan button.
func (s *Service) runRescan(ctx context.Context) {
	if s.rescan == nil {
		return
	}

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rescan(ctx)
		}
	}
}

// runBackup performs daily backups at 2am.
func (s *Service) runBackup(ctx context.Context) {
	for {
		now := time.Now()
		// Next 2am
		next2am := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location())
		if !next2am.After(now) {
			next2am = next2am.Add(24 * time.Hour)
		}
		delay := next2am.Sub(now)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			path, err := backupStateFile(s.statePath)
			if err != nil {
				slog.Error("maintenance: backup failed", "err", err)
			} else {
				slog.Info("maintenance: backup created", "file", path)
			}
		}
	}
}

// backupStateFile copies the state file into ~/backups with a date suffix.
func backupStateFile(statePath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}

	backupDir := filepath.Join(home, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(statePath)
	if err != nil {
		return "", fmt.Errorf("open state file: %w", err)
	}
	defer src.Close()

	date := time.Now().Format("2006-01-02")
	destFile := filepath.Join(backupDir, fmt.Sprintf("soundkeeper-state-%s.json", date))

	dst, err := os.Create(destFile)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy state file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	// Prune backups older than 90 days
	pruneOldBackups(backupDir, backupMaxAge)

	return destFile, nil
}

// pruneOldBackups deletes backup files older than maxAge from backupDir.
func pruneOldBackups(backupDir string, maxAge time.Duration) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasPrefix(e.Name(), "soundkeeper-state-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				slog.Warn("maintenance: failed to prune old backup", "file", path, "err", err)
			} else {
				slog.Info("maintenance: pruned old backup", "file", path)
			}
		}
	}
}
