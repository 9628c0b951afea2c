package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// session is a controller driven synchronously, collecting the notices
// its operations raise.
type session struct {
	r       *runner
	ctrl    *todo.Controller
	notices []string
}

func (r *runner) backend() (todo.API, error) {
	if r.opt.API != nil {
		return r.opt.API, nil
	}
	if path, ok := r.cfg.FileBackend(); ok {
		s, err := jsonstore.New(path)
		if err != nil {
			return nil, err
		}
		r.log.Debug("using file backend", "path", s.Path())
		return s, nil
	}
	token := auth.Token()
	if token == "" {
		r.log.Debug("no API token configured")
	}
	c, err := api.NewClient(api.Config{
		BaseURL: r.cfg.APIURL,
		Token:   token,
		Timeout: r.cfg.Timeout(),
		Logger:  r.log,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newSession builds the controller without loading it.
func (r *runner) newSession() (*session, int) {
	if err := r.cfg.Validate(); err != nil {
		ui.Fail(err.Error())
		return nil, 2
	}
	backend, err := r.backend()
	if err != nil {
		ui.Fail("backend: " + err.Error())
		return nil, 2
	}
	s := &session{r: r}
	s.ctrl = todo.New(todo.Options{
		API:      backend,
		UserID:   r.cfg.UserID,
		Logger:   r.log,
		OnNotice: func(msg string) { s.notices = append(s.notices, msg) },
	})
	return s, 0
}

// open builds a session and loads the owner's items.
func (r *runner) open() (*session, int) {
	s, code := r.newSession()
	if code != 0 {
		return nil, code
	}
	if code := s.run(s.ctrl.Load()); code != 0 {
		return nil, code
	}
	return s, 0
}

// run executes tasks in order and reports the notices they raised.
func (s *session) run(tasks ...todo.Task) int {
	for _, t := range tasks {
		s.ctrl.Run(s.r.ctx, t)
	}
	return s.report()
}

func (s *session) report() int {
	if len(s.notices) == 0 {
		return 0
	}
	for _, msg := range s.notices {
		ui.Fail(msg)
	}
	s.notices = nil
	return 1
}

// at resolves a 1-based index into the confirmed item list.
func (s *session) at(userIndex int) (model.Item, bool) {
	items := s.ctrl.Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		ui.Hint("Hint: run `todo ls` to see valid indexes")
		return model.Item{}, false
	}
	return items[userIndex-1], true
}

// -------------- subcommand impls ----------------

func lsFlags(out io.Writer, plainDefault bool) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(out)
	plain := fs.Bool("plain", plainDefault, "print a plain list instead of the interactive UI")
	return fs, plain
}

// Interactive reports whether args start the TUI: no subcommand or ls
// without --plain, on a terminal, with plain output not forced.
func Interactive(args []string, tty, plain bool) bool {
	if !tty || plain {
		return false
	}
	if len(args) == 0 {
		return true
	}
	if args[0] != "ls" {
		return false
	}
	fs, lsPlain := lsFlags(io.Discard, false)
	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	return !*lsPlain
}

func (r *runner) doList(args []string) int {
	fs, plain := lsFlags(ui.Err, r.cfg.Plain)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	filter := todo.FilterAll
	if fs.NArg() > 1 {
		ui.Fail("usage: todo ls [--plain] [all|active|completed]")
		return 2
	}
	if fs.NArg() == 1 {
		f, err := todo.ParseFilter(fs.Arg(0))
		if err != nil {
			ui.Fail("ls: " + err.Error())
			return 2
		}
		filter = f
	}

	if r.opt.Interactive && !*plain {
		return r.interactive(filter)
	}

	s, code := r.open()
	if code != 0 {
		return code
	}
	s.ctrl.SetFilter(filter)
	ui.Panel(listLines(s.ctrl, r.cfg.Group))
	return 0
}

func (r *runner) interactive(filter todo.Filter) int {
	opts := tui.Options{Theme: ui.Current().Name, Logger: r.log}
	if errors.Is(r.cfg.Validate(), config.ErrNoUserID) {
		if err := tui.RunMissingUser(r.ctx, opts); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 2
	}
	s, code := r.newSession()
	if code != 0 {
		return code
	}
	s.ctrl.SetFilter(filter)
	if err := tui.Run(r.ctx, s.ctrl, opts); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) doAdd(title string) int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	task := s.ctrl.Create(title)
	if task == nil {
		s.report()
		return 2
	}
	if code := s.run(task); code != 0 {
		return code
	}
	ui.OK("added")
	return 0
}

func (r *runner) doToggle(userIndex int) int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	it, ok := s.at(userIndex)
	if !ok {
		return 2
	}
	if code := s.run(s.ctrl.ToggleCompleted(it.ID)); code != 0 {
		return code
	}
	ui.OK("toggled")
	return 0
}

func (r *runner) doEdit(userIndex int, title string) int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	it, ok := s.at(userIndex)
	if !ok {
		return 2
	}
	if code := s.run(s.ctrl.Rename(it.ID, title)); code != 0 {
		return code
	}
	if _, still := s.ctrl.Item(it.ID); !still {
		ui.OK("removed")
		return 0
	}
	ui.OK("renamed")
	return 0
}

func (r *runner) doRemove(userIndex int) int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	it, ok := s.at(userIndex)
	if !ok {
		return 2
	}
	if code := s.run(s.ctrl.Remove(it.ID)); code != 0 {
		return code
	}
	ui.OK("removed")
	return 0
}

func (r *runner) doClear() int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	ids := s.ctrl.CompletedIDs()
	if len(ids) == 0 {
		ui.Hint("nothing to clear")
		return 0
	}
	code = s.run(s.ctrl.ClearCompleted(ids)...)
	removed := countMissing(s.ctrl, ids)
	if removed > 0 {
		ui.OK(fmt.Sprintf("cleared %d completed", removed))
	}
	return code
}

func countMissing(ctrl *todo.Controller, ids []int) int {
	n := 0
	for _, id := range ids {
		if _, ok := ctrl.Item(id); !ok {
			n++
		}
	}
	return n
}

func (r *runner) doToggleAll() int {
	s, code := r.open()
	if code != 0 {
		return code
	}
	if !s.ctrl.ToggleAllVisible() {
		ui.Hint("no items")
		return 0
	}
	markDone := !s.ctrl.AllCompleted()
	if code := s.run(s.ctrl.ToggleAll()); code != 0 {
		return code
	}
	if markDone {
		ui.OK("completed all")
	} else {
		ui.OK("reopened all")
	}
	return 0
}
