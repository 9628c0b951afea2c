package todo

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/clock"
	"github.com/Makepad-fr/tada/internal/model"
)

func TestLoadReplacesStore(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a"},
		model.Item{ID: 2, UserID: 7, Title: "someone else"},
		model.Item{ID: 3, UserID: owner, Title: "b", Completed: true},
	)
	c, _ := loaded(api)

	if !c.Loaded() {
		t.Fatal("Loaded() = false after Load")
	}
	if got := ids(c.Items()); !slices.Equal(got, []int{1, 3}) {
		t.Fatalf("items = %v, want [1 3]", got)
	}
	if c.Notice() != "" {
		t.Fatalf("unexpected notice %q", c.Notice())
	}
}

func TestLoadFailureLeavesStoreEmpty(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 1, UserID: owner, Title: "a"})
	api.listErr = errNetwork
	c, _ := loaded(api)

	if len(c.Items()) != 0 {
		t.Fatalf("items = %v, want none", c.Items())
	}
	if c.Notice() != MsgLoadFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgLoadFailed)
	}
}

func TestCreateEmptyTitleNeverCallsAPI(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		api := newFakeAPI()
		c, _ := loaded(api)

		if task := c.Create(title); task != nil {
			t.Fatalf("Create(%q) returned a task", title)
		}
		if len(api.creates) != 0 {
			t.Fatalf("Create(%q) reached the API", title)
		}
		if _, ok := c.Placeholder(); ok {
			t.Fatalf("Create(%q) installed a placeholder", title)
		}
		if c.Notice() != MsgEmptyTitle {
			t.Fatalf("notice = %q, want %q", c.Notice(), MsgEmptyTitle)
		}
	}
}

func TestCreateInstallsPlaceholderUntilSettled(t *testing.T) {
	api := newFakeAPI()
	c, _ := loaded(api)
	c.SetDraft("  Buy milk ")

	task := c.Create("  Buy milk ")
	if task == nil {
		t.Fatal("Create returned nil task")
	}
	ph, ok := c.Placeholder()
	if !ok {
		t.Fatal("no placeholder while create pending")
	}
	if ph.ID != model.PlaceholderID || ph.Title != "Buy milk" || ph.UserID != owner {
		t.Fatalf("placeholder = %+v", ph)
	}
	if !c.Busy(owner) {
		t.Fatal("owner id not marked in flight")
	}
	if again := c.Create("second"); again != nil {
		t.Fatal("second Create while one is pending returned a task")
	}

	c.Apply(task(context.Background()))

	if _, ok := c.Placeholder(); ok {
		t.Fatal("placeholder survived a successful create")
	}
	if c.Busy(owner) {
		t.Fatal("owner id still in flight")
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID == model.PlaceholderID || items[0].Title != "Buy milk" {
		t.Fatalf("items = %+v", items)
	}
	if c.Draft() != "" {
		t.Fatalf("draft = %q, want cleared", c.Draft())
	}
}

func TestCreateFailure(t *testing.T) {
	api := newFakeAPI()
	api.addErr = errNetwork
	c, _ := loaded(api)
	c.SetDraft("x")

	c.Run(context.Background(), c.Create("x"))

	if _, ok := c.Placeholder(); ok {
		t.Fatal("placeholder survived a failed create")
	}
	if c.Busy(owner) {
		t.Fatal("owner id still in flight")
	}
	if len(c.Items()) != 0 {
		t.Fatalf("items = %+v, want none", c.Items())
	}
	if c.Notice() != MsgAddFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgAddFailed)
	}
	if c.Draft() != "x" {
		t.Fatalf("draft = %q, want kept after failure", c.Draft())
	}
}

func TestCreateManyKeepsIDsUnique(t *testing.T) {
	api := newFakeAPI()
	c, _ := loaded(api)

	titles := []string{"a", "b", "c", "d", "e"}
	for i, title := range titles {
		if i == 2 {
			api.addErr = errNetwork
		} else {
			api.addErr = nil
		}
		c.Run(context.Background(), c.Create(title))
	}

	items := c.Items()
	if len(items) != len(titles)-1 {
		t.Fatalf("got %d items, want %d", len(items), len(titles)-1)
	}
	seen := map[int]bool{}
	for _, it := range items {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestRemove(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a"},
		model.Item{ID: 2, UserID: owner, Title: "b"},
	)
	c, _ := loaded(api)

	task := c.Remove(1)
	if !c.Busy(1) {
		t.Fatal("id 1 not in flight while delete pending")
	}
	c.Apply(task(context.Background()))

	if c.Busy(1) {
		t.Fatal("id 1 still in flight")
	}
	if got := ids(c.Items()); !slices.Equal(got, []int{2}) {
		t.Fatalf("items = %v, want [2]", got)
	}
}

func TestRemoveFailureKeepsItem(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 1, UserID: owner, Title: "a"})
	api.failIDs[1] = true
	c, _ := loaded(api)

	c.Run(context.Background(), c.Remove(1))

	if got := ids(c.Items()); !slices.Equal(got, []int{1}) {
		t.Fatalf("items = %v, want [1]", got)
	}
	if c.Busy(1) {
		t.Fatal("id 1 still in flight after failure")
	}
	if c.Notice() != MsgDeleteFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgDeleteFailed)
	}
}

func TestRename(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 5, UserID: owner, Title: "old"})
	c, _ := loaded(api)

	task := c.Rename(5, "  new  ")
	if got, _ := c.Item(5); got.Title != "old" {
		t.Fatalf("store title changed before confirmation: %q", got.Title)
	}
	c.Apply(task(context.Background()))

	if got, _ := c.Item(5); got.Title != "new" {
		t.Fatalf("title = %q, want new", got.Title)
	}
	if len(api.updates) != 1 || api.updates[0].Title != "new" {
		t.Fatalf("updates = %+v", api.updates)
	}
}

func TestRenameFailureRollsBack(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 5, UserID: owner, Title: "old"})
	api.failIDs[5] = true
	c, _ := loaded(api)

	c.Run(context.Background(), c.Rename(5, "new"))

	if got, _ := c.Item(5); got.Title != "old" {
		t.Fatalf("title = %q, want old", got.Title)
	}
	if c.Notice() != MsgUpdateFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgUpdateFailed)
	}
}

func TestRenameToEmptyDeletes(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 5, UserID: owner, Title: "old"})
	c, _ := loaded(api)

	c.Run(context.Background(), c.Rename(5, "   "))

	if len(api.updates) != 0 {
		t.Fatalf("rename to empty issued updates: %+v", api.updates)
	}
	if !slices.Equal(api.deletes, []int{5}) {
		t.Fatalf("deletes = %v, want [5]", api.deletes)
	}
	if len(c.Items()) != 0 {
		t.Fatalf("items = %+v, want none", c.Items())
	}
}

func TestRenameUnknownIDIsNoop(t *testing.T) {
	api := newFakeAPI()
	c, _ := loaded(api)

	if task := c.Rename(99, "x"); task != nil {
		t.Fatal("Rename on unknown id returned a task")
	}
	if task := c.ToggleCompleted(99); task != nil {
		t.Fatal("ToggleCompleted on unknown id returned a task")
	}
	if c.Notice() != "" {
		t.Fatalf("unexpected notice %q", c.Notice())
	}
}

func TestToggleCompleted(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 1, UserID: owner, Title: "a"})
	c, _ := loaded(api)

	c.Run(context.Background(), c.ToggleCompleted(1))
	if got, _ := c.Item(1); !got.Completed {
		t.Fatal("item not completed after toggle")
	}
	c.Run(context.Background(), c.ToggleCompleted(1))
	if got, _ := c.Item(1); got.Completed {
		t.Fatal("item still completed after second toggle")
	}
}

func TestClearCompleted(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a", Completed: true},
		model.Item{ID: 2, UserID: owner, Title: "b"},
		model.Item{ID: 3, UserID: owner, Title: "c", Completed: true},
	)
	c, _ := loaded(api)

	completed := c.CompletedIDs()
	tasks := c.ClearCompleted(completed)
	if len(tasks) != len(completed) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(completed))
	}
	for _, task := range tasks {
		c.Run(context.Background(), task)
	}

	if !slices.Equal(api.deletes, []int{1, 3}) {
		t.Fatalf("deletes = %v, want [1 3]", api.deletes)
	}
	if got := ids(c.Items()); !slices.Equal(got, []int{2}) {
		t.Fatalf("items = %v, want [2]", got)
	}
}

func TestClearCompletedPartialFailure(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a", Completed: true},
		model.Item{ID: 2, UserID: owner, Title: "b", Completed: true},
	)
	api.failIDs[1] = true
	c, _ := loaded(api)

	for _, task := range c.ClearCompleted(c.CompletedIDs()) {
		c.Run(context.Background(), task)
	}

	if len(api.deletes) != 2 {
		t.Fatalf("deletes = %v, want both attempted", api.deletes)
	}
	if got := ids(c.Items()); !slices.Equal(got, []int{1}) {
		t.Fatalf("items = %v, want [1]", got)
	}
	if c.Notice() != MsgDeleteFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgDeleteFailed)
	}
}

func TestOutcomesSettleInAnyOrder(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a"},
		model.Item{ID: 2, UserID: owner, Title: "b"},
	)
	c, _ := loaded(api)

	first := c.ToggleCompleted(1)
	second := c.Remove(2)
	if got := c.InFlight(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("in flight = %v, want [1 2]", got)
	}

	o2 := second(context.Background())
	o1 := first(context.Background())
	c.Apply(o2)
	if !c.Busy(1) || c.Busy(2) {
		t.Fatalf("in flight = %v, want [1]", c.InFlight())
	}
	c.Apply(o1)

	items := c.Items()
	if len(items) != 1 || items[0].ID != 1 || !items[0].Completed {
		t.Fatalf("items = %+v", items)
	}
}

func TestToggleAll(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      bool
		wantCalls int
	}{
		{"some incomplete", []bool{true, false, false}, true, 2},
		{"none complete", []bool{false, false}, true, 2},
		{"all complete", []bool{true, true, true}, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seed []model.Item
			for i, done := range tt.completed {
				seed = append(seed, model.Item{ID: i + 1, UserID: owner, Title: "x", Completed: done})
			}
			api := newFakeAPI(seed...)
			c, _ := loaded(api)

			task := c.ToggleAll()
			if c.ToggleAllVisible() {
				t.Fatal("toggle-all affordance visible while updates in flight")
			}
			c.Apply(task(context.Background()))

			if len(api.updates) != tt.wantCalls {
				t.Fatalf("updates = %d, want %d", len(api.updates), tt.wantCalls)
			}
			for _, it := range c.Items() {
				if it.Completed != tt.want {
					t.Fatalf("item %d completed = %v, want %v", it.ID, it.Completed, tt.want)
				}
			}
			if !c.ToggleAllVisible() {
				t.Fatal("toggle-all affordance hidden after settle")
			}
		})
	}
}

func TestToggleAllPartialFailureMergesSuccesses(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a"},
		model.Item{ID: 2, UserID: owner, Title: "b"},
		model.Item{ID: 3, UserID: owner, Title: "c"},
	)
	api.failIDs[2] = true
	c, _ := loaded(api)
	gen := c.NoticeGeneration()

	c.Run(context.Background(), c.ToggleAll())

	want := map[int]bool{1: true, 2: false, 3: true}
	for _, it := range c.Items() {
		if it.Completed != want[it.ID] {
			t.Fatalf("item %d completed = %v, want %v", it.ID, it.Completed, want[it.ID])
		}
	}
	if c.Notice() != MsgUpdateFailed {
		t.Fatalf("notice = %q, want %q", c.Notice(), MsgUpdateFailed)
	}
	if got := c.NoticeGeneration() - gen; got != 1 {
		t.Fatalf("raised %d notices, want exactly 1", got)
	}
	if len(c.InFlight()) != 0 {
		t.Fatalf("in flight = %v, want empty", c.InFlight())
	}
}

func TestToggleAllEmptyStore(t *testing.T) {
	c, _ := loaded(newFakeAPI())
	if c.ToggleAll() != nil {
		t.Fatal("ToggleAll on empty store returned a task")
	}
	if c.ToggleAllVisible() {
		t.Fatal("toggle-all affordance visible for empty store")
	}
}

func TestNoticeExpiresAfterTTL(t *testing.T) {
	api := newFakeAPI()
	c, clk := loaded(api)

	c.Create("")
	clk.Advance(NoticeTTL - time.Millisecond)
	if c.Notice() != MsgEmptyTitle {
		t.Fatalf("notice gone early: %q", c.Notice())
	}
	clk.Advance(time.Millisecond)
	if c.Notice() != "" {
		t.Fatalf("notice = %q after TTL, want empty", c.Notice())
	}
}

func TestStaleExpiryKeepsNewerNotice(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 1, UserID: owner, Title: "a"})
	api.failIDs[1] = true
	c, clk := loaded(api)

	c.Create("")
	stale := c.NoticeGeneration()
	clk.Advance(time.Second)
	c.Run(context.Background(), c.Remove(1))

	c.ExpireNotice(stale)
	if c.Notice() != MsgDeleteFailed {
		t.Fatalf("stale expiry cleared newer notice; got %q", c.Notice())
	}
	c.ExpireNotice(c.NoticeGeneration())
	if c.Notice() != "" {
		t.Fatalf("notice = %q after current expiry", c.Notice())
	}
}

func TestDismissNotice(t *testing.T) {
	c, _ := loaded(newFakeAPI())
	c.Create(" ")
	c.DismissNotice()
	if c.Notice() != "" {
		t.Fatalf("notice = %q after dismiss", c.Notice())
	}
}

func TestClosedControllerDropsOutcomes(t *testing.T) {
	api := newFakeAPI(model.Item{ID: 1, UserID: owner, Title: "a"})
	c, _ := loaded(api)

	task := c.Remove(1)
	c.Close()
	c.Apply(task(context.Background()))

	if got := ids(c.Items()); !slices.Equal(got, []int{1}) {
		t.Fatalf("items = %v, closed controller was mutated", got)
	}
}

func TestVisibleFollowsFilter(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a"},
		model.Item{ID: 2, UserID: owner, Title: "b", Completed: true},
	)
	c, _ := loaded(api)

	c.SetFilter(FilterCompleted)
	if got := ids(c.Visible()); !slices.Equal(got, []int{2}) {
		t.Fatalf("visible = %v, want [2]", got)
	}
	if c.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", c.ActiveCount())
	}
}

func TestOnNoticeSeesEveryRaise(t *testing.T) {
	api := newFakeAPI(
		model.Item{ID: 1, UserID: owner, Title: "a", Completed: true},
		model.Item{ID: 2, UserID: owner, Title: "b", Completed: true},
	)
	api.failIDs[1] = true
	api.failIDs[2] = true

	var seen []string
	c := New(Options{API: api, UserID: owner, Clock: clock.Fake(epoch), OnNotice: func(msg string) {
		seen = append(seen, msg)
	}})
	c.Run(context.Background(), c.Load())
	for _, task := range c.ClearCompleted(c.CompletedIDs()) {
		c.Run(context.Background(), task)
	}
	c.Create(" ")

	want := []string{MsgDeleteFailed, MsgDeleteFailed, MsgEmptyTitle}
	if !slices.Equal(seen, want) {
		t.Fatalf("notices = %q, want %q", seen, want)
	}
}
