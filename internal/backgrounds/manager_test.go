package backgrounds

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateVideoFormat(t *testing.T) {
	valid := []string{"clip.mp4", "CLIP.MP4", "a.mov", "b.mkv", "c.webm", "d.avi"}
	for _, name := range valid {
		if !ValidateVideoFormat(name) {
			t.Errorf("expected %s to be valid", name)
		}
	}

	invalid := []string{"audio.mp3", "notes.txt", "noext", "archive.zip"}
	for _, name := range invalid {
		if ValidateVideoFormat(name) {
			t.Errorf("expected %s to be invalid", name)
		}
	}
}

func TestRandomVideoAndCount(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := m.RandomVideo(); err == nil {
		t.Error("expected error for empty library")
	}

	for _, name := range []string{"a.mp4", "b.mov", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := m.Count(); got != 2 {
		t.Errorf("expected 2 videos, got %d", got)
	}

	path, err := m.RandomVideo()
	if err != nil {
		t.Fatalf("RandomVideo: %v", err)
	}
	if !ValidateVideoFormat(path) {
		t.Errorf("picked a non-video file: %s", path)
	}
}

func TestTrimOldKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	names := []string{"old.mp4", "mid.mp4", "new.mp4"}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	m.TrimOld(2)

	if m.Count() != 2 {
		t.Fatalf("expected 2 videos after trim, got %d", m.Count())
	}
	if _, err := os.Stat(filepath.Join(dir, "old.mp4")); !os.IsNotExist(err) {
		t.Error("expected oldest video removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "new.mp4")); err != nil {
		t.Error("expected newest video kept")
	}
}
