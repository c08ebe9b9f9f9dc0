package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lemmego/observer/cmder"
	"github.com/lemmego/observer/config"
	"github.com/lemmego/observer/counter"
	"github.com/lemmego/observer/display"
	"github.com/lemmego/observer/event"
	"github.com/spf13/cobra"
)

const (
	actionUpdate     = "update"
	actionUnregister = "unregister"
	actionRegister   = "register"
	actionReplay     = "replay"
	actionShow       = "show"
	actionQuit       = "quit"
)

var actions = []string{actionUpdate, actionUnregister, actionRegister, actionReplay, actionShow, actionQuit}

// newPrompter is swapped in tests.
var newPrompter = func() cmder.Prompter { return cmder.NewTerminal() }

func newInteractiveCmd(cfg *config.Config) *cobra.Command {
	var displays int

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Drive a counter and its displays from a menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			if displays < 1 {
				return fmt.Errorf("--displays must be at least 1, got %d", displays)
			}
			return runInteractive(newPrompter(), cmd.OutOrStdout(), displays, slog.Default())
		},
	}
	cmd.Flags().IntVar(&displays, "displays", cfg.Section("demo").Int("displays", 2), "number of displays bound to the counter")
	return cmd
}

type session struct {
	prompt   cmder.Prompter
	out      io.Writer
	counter  *counter.Counter
	displays []*display.CountDisplay
	names    []string
}

func runInteractive(prompt cmder.Prompter, out io.Writer, n int, logger *slog.Logger) error {
	s := &session{
		prompt:  prompt,
		out:     out,
		counter: counter.New(event.WithLogger(logger)),
	}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("display%d", i)
		s.names = append(s.names, name)
		s.displays = append(s.displays, display.New(s.counter,
			display.WithName(name), display.WithSink(out), display.WithLogger(logger)))
	}

	for {
		action, err := prompt.Select("Action", actions)
		if errors.Is(err, cmder.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if action == actionQuit {
			return nil
		}
		if err := s.do(action); err != nil {
			if errors.Is(err, cmder.ErrAborted) {
				return nil
			}
			return err
		}
	}
}

func (s *session) do(action string) error {
	switch action {
	case actionUpdate:
		return s.counter.Update()
	case actionShow:
		for _, d := range s.displays {
			state := "registered"
			if !d.Registered() {
				state = "unregistered"
			}
			if _, err := fmt.Fprintf(s.out, "%s (%s, id %s): %d\n", d.Name(), state, d.ID(), d.Count()); err != nil {
				return err
			}
		}
		return nil
	}

	d, err := s.pick()
	if err != nil {
		return err
	}

	switch action {
	case actionUnregister:
		d.Unregister()
	case actionRegister:
		d.Register()
		replay, err := s.prompt.Confirm(fmt.Sprintf("Send the current count to %s?", d.Name()), 'n')
		if err != nil {
			return err
		}
		if replay {
			return s.counter.Replay(d.ID())
		}
	case actionReplay:
		return s.counter.Replay(d.ID())
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func (s *session) pick() (*display.CountDisplay, error) {
	name, err := s.prompt.Select("Display", s.names)
	if err != nil {
		return nil, err
	}
	for _, d := range s.displays {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown display %q", name)
}
