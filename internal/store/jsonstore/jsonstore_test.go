package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

var _ todo.API = (*Store)(nil)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "todos.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestMissingFileListsNothing(t *testing.T) {
	s := newStore(t)
	items, err := s.ListItems(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}

func TestCreateListUpdateDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a, err := s.CreateItem(ctx, model.Item{UserID: 1, Title: "a"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	b, _ := s.CreateItem(ctx, model.Item{UserID: 1, Title: "b"})
	if _, err := s.CreateItem(ctx, model.Item{UserID: 2, Title: "other"}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", a.ID, b.ID)
	}

	b.Completed = true
	if err := s.UpdateItem(ctx, b.ID, b); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if err := s.DeleteItem(ctx, a.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, err := s.ListItems(ctx, 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 || !items[0].Completed {
		t.Fatalf("items = %+v", items)
	}

	c, _ := s.CreateItem(ctx, model.Item{UserID: 1, Title: "c"})
	if c.ID != 4 {
		t.Fatalf("next id = %d, want 4", c.ID)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.UpdateItem(ctx, 7, model.Item{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateItem err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteItem(ctx, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteItem err = %v, want ErrNotFound", err)
	}
}

func TestCorruptFile(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path(), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ListItems(context.Background(), 1); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestCanceledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CreateItem(ctx, model.Item{Title: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s := newStore(t)
	var wg sync.WaitGroup
	results := make([]model.Item, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = s.CreateItem(context.Background(), model.Item{UserID: 1, Title: "x"})
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, it := range results {
		if it.ID == 0 || seen[it.ID] {
			t.Fatalf("bad or duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestRelativePathResolvesAgainstWorkingDir(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.Path(); !filepath.IsAbs(got) || filepath.Base(got) != DefaultFileName {
		t.Fatalf("Path() = %q, want absolute path ending in %s", got, DefaultFileName)
	}
}
