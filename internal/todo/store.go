package todo

import "github.com/Makepad-fr/tada/internal/model"

// Store is the ordered collection of confirmed items. Order is
// insertion order; ids are unique.
type Store struct {
	items []model.Item
}

// Replace swaps the whole collection. Later duplicates of an id are dropped.
func (s *Store) Replace(items []model.Item) {
	s.items = s.items[:0]
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		s.items = append(s.items, it)
	}
}

// Append adds it at the end, or replaces in place if the id is already stored.
func (s *Store) Append(it model.Item) {
	if s.Put(it) {
		return
	}
	s.items = append(s.items, it)
}

// Put replaces the stored item with the same id. Reports false when absent.
func (s *Store) Put(it model.Item) bool {
	i := s.index(it.ID)
	if i < 0 {
		return false
	}
	s.items[i] = it
	return true
}

func (s *Store) Remove(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Store) Get(id int) (model.Item, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy safe for the caller to keep.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int { return len(s.items) }

// AllCompleted reports whether every item is completed; true when empty.
func (s *Store) AllCompleted() bool {
	for _, it := range s.items {
		if !it.Completed {
			return false
		}
	}
	return true
}

// CompletedIDs lists the ids of completed items in store order.
func (s *Store) CompletedIDs() []int {
	var ids []int
	for _, it := range s.items {
		if it.Completed {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// ActiveCount is the number of items not yet completed.
func (s *Store) ActiveCount() int {
	n := 0
	for _, it := range s.items {
		if !it.Completed {
			n++
		}
	}
	return n
}

func (s *Store) index(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
