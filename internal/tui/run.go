package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/clock"
	"github.com/Makepad-fr/tada/internal/todo"
)

type Options struct {
	Theme  string
	Clock  clock.Clock
	Logger *log.Logger
}

// Run starts the interactive list and blocks until the user quits or ctx
// is cancelled. Pending requests are cancelled on the way out and their
// outcomes dropped.
func Run(ctx context.Context, ctrl *todo.Controller, opts Options) error {
	applyTheme(opts.Theme)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer ctrl.Close()

	p := tea.NewProgram(newModel(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// RunMissingUser shows the screen displayed when no owner id is configured.
func RunMissingUser(ctx context.Context, opts Options) error {
	applyTheme(opts.Theme)
	_, err := tea.NewProgram(missingUser{}, tea.WithContext(ctx)).Run()
	return err
}

const missingUserText = `No user id configured.

Set user_id in ~/.tada/config.toml or ./tada.toml,
export TADA_USER_ID, or pass -user <id>.`

type missingUser struct{}

func (missingUser) Init() tea.Cmd { return nil }

func (w missingUser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return w, tea.Quit
	}
	return w, nil
}

func (missingUser) View() string {
	return panelString(errorStyle.Render("Warning") + "\n\n" + missingUserText + "\n\n" + helpStyle.Render("press any key to exit"))
}
