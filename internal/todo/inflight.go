package todo

import "sort"

// Tracker is the set of ids currently awaiting a server response.
// It is observational only: nothing blocks on it.
type Tracker struct {
	ids map[int]struct{}
}

func (t *Tracker) Mark(id int) {
	if t.ids == nil {
		t.ids = make(map[int]struct{})
	}
	t.ids[id] = struct{}{}
}

func (t *Tracker) Unmark(id int) { delete(t.ids, id) }

func (t *Tracker) Has(id int) bool {
	_, ok := t.ids[id]
	return ok
}

func (t *Tracker) Len() int { return len(t.ids) }

// IDs returns the tracked ids in ascending order.
func (t *Tracker) IDs() []int {
	out := make([]int, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
