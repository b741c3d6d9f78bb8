package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"catshop/internal/domain"
)

const (
	documentFile    = "db.json"
	legacyUsersFile = "users.json"
)

// Store persists the whole document as a single JSON file. All access goes
// through a mutex, so concurrent mutations within one process cannot lose
// each other's writes; the on-disk contract stays load-everything /
// rewrite-everything.
type Store struct {
	mu         sync.Mutex
	path       string
	legacyPath string
	logger     *log.Logger
}

// New builds a Store rooted at dir. Call Init before serving requests.
func New(dir string, logger *log.Logger) *Store {
	return &Store{
		path:       filepath.Join(dir, documentFile),
		legacyPath: filepath.Join(dir, legacyUsersFile),
		logger:     logger,
	}
}

// Init creates the data directory and the initial document. An empty user
// list is backfilled from a legacy users.json if one parses; missing cats are
// seeded. Runs once at startup.
func (s *Store) Init(seedCats []domain.Cat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	doc, err := s.read()
	if err != nil {
		return err
	}

	if len(doc.Users) == 0 {
		if users, ok := s.readLegacyUsers(); ok {
			doc.Users = users
		}
	}
	if len(doc.Cats) == 0 {
		doc.Cats = append(doc.Cats, seedCats...)
	}

	return s.write(doc)
}

// Load returns the current document in full.
func (s *Store) Load() (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update runs fn inside the load-mutate-save cycle. An error from fn aborts
// the update without touching the file.
func (s *Store) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) read() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		var doc Document
		doc.normalize()
		return doc, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	doc.normalize()
	return doc, nil
}

// write rewrites the document atomically: a temp file in the same directory
// is renamed over the old one, so a concurrent reader only ever sees a
// complete previous or complete new document.
func (s *Store) write(doc Document) error {
	doc.normalize()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "db-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// readLegacyUsers loads the pre-document users.json array. Any failure is
// logged and skipped; legacy migration is best effort.
func (s *Store) readLegacyUsers() ([]domain.User, bool) {
	raw, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("migrate %s: %v", legacyUsersFile, err)
		}
		return nil, false
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		s.logger.Printf("migrate %s: %v", legacyUsersFile, err)
		return nil, false
	}
	return users, true
}
