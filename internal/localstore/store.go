// Package localstore persists the personal lists (to-dos, movies, problems)
// as one JSON file per key. Reads never fail: a missing or unreadable file
// is an empty list.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
)

// Store manages the list files in a single directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// DefaultDir returns the default data directory, e.g. ~/.config/prdash/data.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "prdash", "data"), nil
}

// NewStore creates a store rooted at dir, creating it if needed.
// An empty dir uses DefaultDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the list files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func load[T any](s *Store, key string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not read list, using empty list", "key", key, "error", err)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("could not parse list, using empty list", "key", key, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// save replaces the whole list under key. The file is written next to its
// destination and renamed into place.
func save[T any](s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	log.Debug("saved list", "key", key, "items", len(items))
	return nil
}

// Todos returns the to-do list.
func (s *Store) Todos() []model.Todo {
	return load[model.Todo](s, constants.KeyTodos)
}

// SaveTodos replaces the to-do list.
func (s *Store) SaveTodos(todos []model.Todo) error {
	return save(s, constants.KeyTodos, todos)
}

// Movies returns the movie list.
func (s *Store) Movies() []model.Movie {
	return load[model.Movie](s, constants.KeyMovies)
}

// SaveMovies replaces the movie list.
func (s *Store) SaveMovies(movies []model.Movie) error {
	return save(s, constants.KeyMovies, movies)
}

// Problems returns the coding problem list.
func (s *Store) Problems() []model.Problem {
	return load[model.Problem](s, constants.KeyProblems)
}

// SaveProblems replaces the coding problem list.
func (s *Store) SaveProblems(problems []model.Problem) error {
	return save(s, constants.KeyProblems, problems)
}

// Counts is the number of entries in each list.
type Counts struct {
	Todos    int `json:"todos"`
	Movies   int `json:"movies"`
	Problems int `json:"problems"`
}

// Counts reads every list and returns its length.
func (s *Store) Counts() Counts {
	return Counts{
		Todos:    len(s.Todos()),
		Movies:   len(s.Movies()),
		Problems: len(s.Problems()),
	}
}

// Keys lists every list key the store knows.
var Keys = []string{constants.KeyTodos, constants.KeyMovies, constants.KeyProblems}

// Clear removes the file backing key. Clearing an absent list is not an error.
func (s *Store) Clear(key string) error {
	known := false
	for _, k := range Keys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown list %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	log.Debug("cleared list", "key", key)
	return nil
}
