package backgrounds

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var supportedFormats = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}

// Manager owns the local library of background videos
type Manager struct {
	dir string
	rnd *rand.Rand
}

// NewManager creates a manager and ensures the library directory exists
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backgrounds directory: %v", err)
	}
	return &Manager{
		dir: dir,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Dir returns the library directory
func (m *Manager) Dir() string {
	return m.dir
}

// RandomVideo picks one background video at random from the library
func (m *Manager) RandomVideo() (string, error) {
	files, err := m.videoFiles()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no background videos found in %s", m.dir)
	}

	selected := files[m.rnd.Intn(len(files))]
	log.Printf("Selected background video: %s", filepath.Base(selected))
	return selected, nil
}

// Count returns the number of videos in the library
func (m *Manager) Count() int {
	files, err := m.videoFiles()
	if err != nil {
		return 0
	}
	return len(files)
}

// TrimOld removes the oldest videos beyond keepCount, by modification time
func (m *Manager) TrimOld(keepCount int) {
	files, err := m.videoFiles()
	if err != nil || len(files) <= keepCount {
		return
	}

	type entry struct {
		path    string
		modTime time.Time
	}
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		entries = append(entries, entry{f, info.ModTime()})
	}

	// Newest first
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.After(entries[j].modTime)
	})

	removed := 0
	for _, e := range entries[keepCount:] {
		if err := os.Remove(e.path); err != nil {
			log.Printf("Failed to remove old background %s: %v", e.path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Trimmed %d old background videos (keeping %d)", removed, keepCount)
	}
}

func (m *Manager) videoFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backgrounds directory: %v", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ValidateVideoFormat(e.Name()) {
			files = append(files, filepath.Join(m.dir, e.Name()))
		}
	}
	return files, nil
}

// ValidateVideoFormat checks if the file extension is a supported video format
func ValidateVideoFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
