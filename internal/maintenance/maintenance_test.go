package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunBackupNow(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "soundkeeper.json")
	if err := os.WriteFile(statePath, []byte(`{"zones":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	svc := New(statePath, nil)
	backup, err := svc.RunBackupNow()
	if err != nil {
		t.Fatalf("RunBackupNow: %v", err)
	}

	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(data) != `{"zones":[]}` {
		t.Errorf("backup content = %q", data)
	}
}

func TestRunBackupNow_MissingStateFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	svc := New(filepath.Join(t.TempDir(), "nope.json"), nil)
	if _, err := svc.RunBackupNow(); err == nil {
		t.Error("expected error for missing state file")
	}
}

func TestListBackups_Empty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	files, err := ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no backups, got %v", files)
	}
}

func TestPruneOldBackups(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "soundkeeper-state-2020-01-01.json")
	if err := os.WriteFile(oldFile, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-100 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	freshFile := filepath.Join(dir, "soundkeeper-state-fresh.json")
	if err := os.WriteFile(freshFile, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	pruneOldBackups(dir, backupMaxAge)

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old backup should have been pruned")
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Error("fresh backup should have been kept")
	}
}

func TestStart_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	svc := New(filepath.Join(t.TempDir(), "soundkeeper.json"), func(context.Context) {})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
