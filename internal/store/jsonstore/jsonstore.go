package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// JSON-backed stand-in for the remote API. Single file, human-readable,
// portable; selected with an api_url of the form "file:<path>".
// Calls are serialized with a mutex; other processes are not locked out.

// DefaultFileName is used when the file: URL names no path.
const DefaultFileName = "todos.json"

// ErrNotFound is returned for update/delete of an unknown id.
var ErrNotFound = errors.New("item not found")

type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store backed by path, relative to the working directory
// when not absolute. The file is created on first write.
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) ListItems(ctx context.Context, userID int) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

// CreateItem assigns the next free id (max + 1) and persists draft.
func (s *Store) CreateItem(ctx context.Context, draft model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	items, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	draft.ID = next
	if err := s.save(append(items, draft)); err != nil {
		return model.Item{}, err
	}
	return draft, nil
}

func (s *Store) UpdateItem(ctx context.Context, id int, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := s.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			item.ID = id
			items[i] = item
			return s.save(items)
		}
	}
	return fmt.Errorf("update %d: %w", id, ErrNotFound)
}

func (s *Store) DeleteItem(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := s.load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return s.save(append(items[:i], items[i+1:]...))
		}
	}
	return fmt.Errorf("delete %d: %w", id, ErrNotFound)
}

func (s *Store) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

func (s *Store) save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
