// Package history is the append-only log of past generation jobs, persisted
// as a single JSON document. Entries are never mutated after creation; the
// whole list can be atomically cleared.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry records one completed generation job. Only metadata is retained; the
// artifact itself belongs to the cleanup timer.
type Entry struct {
	ID         string  `json:"id"`
	VideoUsed  string  `json:"videoUsed"`
	MusicUsed  string  `json:"musicUsed"` // "None" when the job had no music
	DateTime   string  `json:"dateTime"`  // ISO-8601
	Duration   float64 `json:"durationSeconds"`
	AutoDelete bool    `json:"autoDelete"`
}

type document struct {
	History []Entry `json:"history"`
}

// Store persists entries with read-modify-write on a single file. A mutex
// serializes writers; the pipeline runs one job at a time but the history
// endpoints may race a job completion.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store writing to path. The file is created on first
// append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append adds an entry at the end of the log. A missing MusicUsed defaults to
// "None" and a missing DateTime to the current UTC time.
func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.MusicUsed == "" {
		e.MusicUsed = "None"
	}
	if e.DateTime == "" {
		e.DateTime = time.Now().UTC().Format(time.RFC3339)
	}

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.History = append(doc.History, e)
	return s.write(doc)
}

// List returns all entries in insertion order.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if doc.History == nil {
		return []Entry{}, nil
	}
	return doc.History, nil
}

// Clear replaces the document with an empty list.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(document{History: []Entry{}})
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{History: []Entry{}}, nil
		}
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

// write replaces the document via a temp file and rename so readers never
// observe a half-written log.
func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
