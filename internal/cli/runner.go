package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry what the root command resolved.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	// API replaces the backend selected by Config.APIURL.
	API todo.API
	// Interactive lets ls start the TUI.
	Interactive bool
	// In is read by auth login; defaults to os.Stdin.
	In io.Reader
}

type runner struct {
	ctx context.Context
	opt Options
	cfg *config.Config
	log *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	r := &runner{ctx: ctx, opt: opt, cfg: opt.Config, log: opt.Logger}
	if r.cfg == nil {
		r.cfg = &config.Config{}
	}
	if r.log == nil {
		r.log = log.New(io.Discard)
	}
	if r.opt.In == nil {
		r.opt.In = os.Stdin
	}

	if len(args) == 0 {
		if opt.Interactive {
			return r.doList(nil)
		}
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return r.doList(a)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: todo add <title...>")
			return 2
		}
		return r.doAdd(strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: todo done <index>")
			return 2
		}
		n, ok := parseIndex("done", a[0])
		if !ok {
			return 2
		}
		return r.doToggle(n)

	case "edit":
		if len(a) < 1 {
			ui.Fail("usage: todo edit <index> <title...>")
			return 2
		}
		n, ok := parseIndex("edit", a[0])
		if !ok {
			return 2
		}
		return r.doEdit(n, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: todo rm <index>")
			return 2
		}
		n, ok := parseIndex("rm", a[0])
		if !ok {
			return 2
		}
		return r.doRemove(n)

	case "clear":
		return r.doClear()

	case "toggle-all":
		return r.doToggleAll()

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return r.doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		default:
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Out, `todo - a terminal client for a remote todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [--plain] [all|active|completed]
                          List items (interactive on a terminal)
  add <title...>          Add a new item (title can be multiple words)
  done <index>            Toggle completed for item at 1-based index
  edit <index> <title...> Rename item (an empty title deletes it)
  rm <index>              Remove item at 1-based index
  clear                   Remove every completed item
  toggle-all              Complete all items, or reopen all when all are complete
  auth <login|logout|status|whoami>   Token authentication

Flags:
  -api URL        todo API base URL, or file:<path> for a local JSON file
  -user ID        owner user id
  -theme NAME     classic, neon or mono
  -log-file PATH  write logs to this file
  -log-level LVL  debug, info, warn, error
  -timeout SECS   per-request timeout
  -group          group plain output by pending/done
  -plain          never start the interactive UI

Examples:
  todo -user 42 add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

func parseIndex(cmd, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		ui.Fail(cmd + ": not a number: " + s)
		return 0, false
	}
	return n, true
}
