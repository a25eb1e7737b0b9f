package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/nachoal/lingo-tutor-go/assessment"
)

// FileStore keeps one JSON file per record plus an index
//
//	<dir>/assessments/<id>.json
//	<dir>/transcripts/<id>.json
//	<dir>/meta.json
type FileStore struct {
	dir      string
	metaPath string
	mu       sync.RWMutex
}

// MetaIndex lists stored record IDs per language in insertion order
type MetaIndex struct {
	Version        string              `json:"version"`
	LastRecord     string              `json:"last_record_id,omitempty"`
	LastTranscript string              `json:"last_transcript_id,omitempty"`
	LanguageIndex  map[string][]string `json:"language_index"`
}

// DefaultDir is ~/.lingo
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".lingo"), nil
}

// NewFileStore creates the directory layout under dir. An empty dir means DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	s := &FileStore{
		dir:      dir,
		metaPath: filepath.Join(dir, "meta.json"),
	}

	for _, sub := range []string{"assessments", "transcripts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	if _, err := os.Stat(s.metaPath); os.IsNotExist(err) {
		if err := s.saveMeta(&MetaIndex{Version: "1.0", LanguageIndex: make(map[string][]string)}); err != nil {
			return nil, fmt.Errorf("failed to initialize meta index: %w", err)
		}
	}

	return s, nil
}

// Save writes result to disk and indexes it by language
func (s *FileStore) Save(_ context.Context, result *assessment.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Date.IsZero() {
		result.Date = time.Now()
	}
	if result.ID == "" {
		result.ID = newID(result.Date)
	}

	if err := writeJSON(s.recordPath(result.ID), result); err != nil {
		return fmt.Errorf("failed to write assessment: %w", err)
	}

	meta, err := s.loadMeta()
	if err != nil {
		return fmt.Errorf("failed to load meta: %w", err)
	}
	meta.LastRecord = result.ID
	meta.LanguageIndex[result.Language] = append(meta.LanguageIndex[result.Language], result.ID)
	if err := s.saveMeta(meta); err != nil {
		return fmt.Errorf("failed to save meta: %w", err)
	}
	return nil
}

// List returns the stored results for language, newest first
func (s *FileStore) List(_ context.Context, language string) ([]assessment.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.loadMeta()
	if err != nil {
		return nil, fmt.Errorf("failed to load meta: %w", err)
	}

	var ids []string
	if language == "" || language == "all" {
		for _, list := range meta.LanguageIndex {
			ids = append(ids, list...)
		}
	} else {
		ids = meta.LanguageIndex[language]
	}

	results := make([]assessment.Result, 0, len(ids))
	for _, id := range ids {
		var r assessment.Result
		if err := readJSON(s.recordPath(id), &r); err != nil {
			// A record removed by hand should not break the listing
			continue
		}
		enrich(&r)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Date.After(results[j].Date)
	})
	return results, nil
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, "assessments", id+".json")
}

func (s *FileStore) transcriptPath(id string) string {
	return filepath.Join(s.dir, "transcripts", id+".json")
}

func (s *FileStore) loadMeta() (*MetaIndex, error) {
	var meta MetaIndex
	if err := readJSON(s.metaPath, &meta); err != nil {
		return nil, err
	}
	if meta.LanguageIndex == nil {
		meta.LanguageIndex = make(map[string][]string)
	}
	return &meta, nil
}

func (s *FileStore) saveMeta(meta *MetaIndex) error {
	return writeJSON(s.metaPath, meta)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
