// Package todo holds the client-side reconciliation core: the item
// store, the in-flight tracker, the transient notice and the filter,
// owned by a single Controller.
//
// Operations are split in two. The synchronous half runs when the
// operation is called (validation, placeholder, in-flight marks) and
// returns a Task. A Task performs the API call and may run on any
// goroutine; it returns an Outcome which must be handed back to
// Controller.Apply on the goroutine that owns the controller. Nothing
// but Apply mutates state after a request settles.
//
// Two requests for the same id are not serialized: both settle
// independently and the one applied last wins.
package todo

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/clock"
	"github.com/Makepad-fr/tada/internal/model"
)

// API is the remote collaborator the controller talks to.
type API interface {
	ListItems(ctx context.Context, userID int) ([]model.Item, error)
	CreateItem(ctx context.Context, draft model.Item) (model.Item, error)
	UpdateItem(ctx context.Context, id int, item model.Item) error
	DeleteItem(ctx context.Context, id int) error
}

// Task is the network half of an operation.
type Task func(ctx context.Context) Outcome

// Outcome settles a finished Task against the controller state.
type Outcome func(c *Controller)

// Options configure a Controller. API and UserID are required.
type Options struct {
	API    API
	UserID int
	Clock  clock.Clock
	Logger *log.Logger
	// OnNotice, if set, sees every raised notice.
	OnNotice func(msg string)
}

// Controller owns the application state. It is not safe for concurrent
// use; only Tasks may run elsewhere.
type Controller struct {
	api    API
	userID int
	clock  clock.Clock
	log    *log.Logger
	notify func(string)

	store       Store
	inflight    Tracker
	notice      Notice
	filter      Filter
	placeholder *model.Item
	draft       string
	loaded      bool
	closed      bool
}

func New(opts Options) *Controller {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		api:    opts.API,
		userID: opts.UserID,
		clock:  clk,
		log:    logger,
		notify: opts.OnNotice,
	}
}

// Apply settles an outcome. After Close it does nothing.
func (c *Controller) Apply(o Outcome) {
	if o == nil || c.closed {
		return
	}
	o(c)
}

// Run executes t synchronously and applies its outcome.
func (c *Controller) Run(ctx context.Context, t Task) {
	if t == nil {
		return
	}
	c.Apply(t(ctx))
}

// Close detaches the controller from its view; outcomes that arrive
// afterwards are dropped.
func (c *Controller) Close() { c.closed = true }

// ---------- read side ----------

func (c *Controller) UserID() int            { return c.userID }
func (c *Controller) Items() []model.Item    { return c.store.Items() }
func (c *Controller) Visible() []model.Item  { return Select(c.store.items, c.filter) }
func (c *Controller) Filter() Filter         { return c.filter }
func (c *Controller) SetFilter(f Filter)     { c.filter = f }
func (c *Controller) Busy(id int) bool       { return c.inflight.Has(id) }
func (c *Controller) InFlight() []int        { return c.inflight.IDs() }
func (c *Controller) Loaded() bool           { return c.loaded }
func (c *Controller) Draft() string          { return c.draft }
func (c *Controller) SetDraft(s string)      { c.draft = s }
func (c *Controller) ActiveCount() int       { return c.store.ActiveCount() }
func (c *Controller) CompletedIDs() []int    { return c.store.CompletedIDs() }
func (c *Controller) AllCompleted() bool     { return c.store.AllCompleted() }

// Item looks up a confirmed item by id.
func (c *Controller) Item(id int) (model.Item, bool) { return c.store.Get(id) }

// Placeholder is the pending create, if any.
func (c *Controller) Placeholder() (model.Item, bool) {
	if c.placeholder == nil {
		return model.Item{}, false
	}
	return *c.placeholder, true
}

// ToggleAllVisible gates the bulk toggle affordance.
func (c *Controller) ToggleAllVisible() bool {
	return c.inflight.Len() == 0 && c.store.Len() > 0
}

// Notice returns the live notice text, or "" when there is none.
func (c *Controller) Notice() string { return c.notice.Text(c.clock.Now()) }

// NoticeGeneration changes on every raise or dismiss.
func (c *Controller) NoticeGeneration() uint64 { return c.notice.Generation() }

func (c *Controller) DismissNotice() { c.notice.Dismiss() }

// ExpireNotice clears the notice raised as generation gen, if it is still current.
func (c *Controller) ExpireNotice(gen uint64) { c.notice.Expire(gen) }

func (c *Controller) raise(msg string) {
	c.notice.Raise(msg, c.clock.Now())
	if c.notify != nil {
		c.notify(msg)
	}
}

// ---------- operations ----------

// Load fetches every item of the owner, replacing the store.
func (c *Controller) Load() Task {
	api, userID := c.api, c.userID
	return func(ctx context.Context) Outcome {
		items, err := api.ListItems(ctx, userID)
		return func(c *Controller) {
			c.loaded = true
			if err != nil {
				c.log.Error("load items", "user", userID, "err", err)
				c.store.Replace(nil)
				c.raise(MsgLoadFailed)
				return
			}
			c.log.Debug("loaded items", "count", len(items))
			c.store.Replace(items)
		}
	}
}

// Create validates title and, if valid, starts creating it. Only one
// create may be pending; further calls return nil until it settles.
func (c *Controller) Create(title string) Task {
	title, err := ValidateTitle(title)
	if err != nil {
		c.raise(MsgEmptyTitle)
		return nil
	}
	if c.placeholder != nil {
		return nil
	}

	draft := model.Item{UserID: c.userID, Title: title}
	placeholder := draft
	c.placeholder = &placeholder
	c.inflight.Mark(c.userID)

	api, owner := c.api, c.userID
	return func(ctx context.Context) Outcome {
		created, err := api.CreateItem(ctx, draft)
		return func(c *Controller) {
			c.placeholder = nil
			c.inflight.Unmark(owner)
			if err != nil {
				c.log.Error("create item", "title", draft.Title, "err", err)
				c.raise(MsgAddFailed)
				return
			}
			c.log.Debug("created item", "id", created.ID)
			c.store.Append(created)
			c.draft = ""
		}
	}
}

// Remove deletes the item with the given id.
func (c *Controller) Remove(id int) Task {
	c.inflight.Mark(id)
	api := c.api
	return func(ctx context.Context) Outcome {
		err := api.DeleteItem(ctx, id)
		return func(c *Controller) {
			c.inflight.Unmark(id)
			if err != nil {
				c.log.Error("delete item", "id", id, "err", err)
				c.raise(MsgDeleteFailed)
				return
			}
			c.store.Remove(id)
		}
	}
}

// Rename sets a new title. An unknown id is ignored; a title that is
// empty after trimming deletes the item instead.
func (c *Controller) Rename(id int, title string) Task {
	it, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	title, err := ValidateTitle(title)
	if err != nil {
		return c.Remove(id)
	}
	it.Title = title
	return c.update(it)
}

// ToggleCompleted flips the completed flag of one item.
func (c *Controller) ToggleCompleted(id int) Task {
	it, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	it.Completed = !it.Completed
	return c.update(it)
}

func (c *Controller) update(candidate model.Item) Task {
	c.inflight.Mark(candidate.ID)
	api := c.api
	return func(ctx context.Context) Outcome {
		err := api.UpdateItem(ctx, candidate.ID, candidate)
		return func(c *Controller) {
			c.inflight.Unmark(candidate.ID)
			if err != nil {
				c.log.Error("update item", "id", candidate.ID, "err", err)
				c.raise(MsgUpdateFailed)
				return
			}
			c.store.Put(candidate)
		}
	}
}

// ClearCompleted deletes each id independently. A failure on one id
// does not stop the others; each failure raises its own notice.
func (c *Controller) ClearCompleted(ids []int) []Task {
	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, c.Remove(id))
	}
	return tasks
}

// ToggleAll completes every item, or un-completes every item when all
// are already completed. The updates run concurrently inside one task.
// Each successful update is merged; any failure raises a single notice.
func (c *Controller) ToggleAll() Task {
	target := !c.store.AllCompleted()
	var changed []model.Item
	for _, it := range c.store.items {
		if it.Completed == target {
			continue
		}
		it.Completed = target
		changed = append(changed, it)
		c.inflight.Mark(it.ID)
	}
	if len(changed) == 0 {
		return nil
	}

	api := c.api
	return func(ctx context.Context) Outcome {
		errs := make([]error, len(changed))
		var wg sync.WaitGroup
		for i, it := range changed {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = api.UpdateItem(ctx, it.ID, it)
			}()
		}
		wg.Wait()

		return func(c *Controller) {
			failed := 0
			for i, it := range changed {
				c.inflight.Unmark(it.ID)
				if errs[i] != nil {
					failed++
					c.log.Error("toggle all", "id", it.ID, "err", errs[i])
					continue
				}
				c.store.Put(it)
			}
			if failed > 0 {
				c.raise(MsgUpdateFailed)
			}
		}
	}
}
