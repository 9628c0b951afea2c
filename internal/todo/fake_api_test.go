package todo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/clock"
	"github.com/Makepad-fr/tada/internal/model"
)

var (
	epoch      = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	errNetwork = errors.New("network down")
)

// fakeAPI records calls and fails the ids listed in failIDs.
type fakeAPI struct {
	mu      sync.Mutex
	items   []model.Item
	nextID  int
	listErr error
	addErr  error
	failIDs map[int]bool

	creates []model.Item
	updates []model.Item
	deletes []int
}

func newFakeAPI(items ...model.Item) *fakeAPI {
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return &fakeAPI{items: items, nextID: next, failIDs: map[int]bool{}}
}

func (f *fakeAPI) ListItems(ctx context.Context, userID int) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Item
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateItem(ctx context.Context, draft model.Item) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, draft)
	if f.addErr != nil {
		return model.Item{}, f.addErr
	}
	draft.ID = f.nextID
	f.nextID++
	f.items = append(f.items, draft)
	return draft, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, id int, item model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, item)
	if f.failIDs[id] {
		return fmt.Errorf("update %d: %w", id, errNetwork)
	}
	return nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.failIDs[id] {
		return fmt.Errorf("delete %d: %w", id, errNetwork)
	}
	return nil
}

const owner = 42

func newTestController(api API) (*Controller, *clock.FakeClock) {
	clk := clock.Fake(epoch)
	return New(Options{API: api, UserID: owner, Clock: clk}), clk
}

func loaded(api *fakeAPI) (*Controller, *clock.FakeClock) {
	c, clk := newTestController(api)
	c.Run(context.Background(), c.Load())
	return c, clk
}

func ids(items []model.Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
