package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lemmego/observer/config"
	"github.com/lemmego/observer/counter"
	"github.com/lemmego/observer/display"
	"github.com/lemmego/observer/event"
	"github.com/spf13/cobra"
)

const topicNarrate = "demo.narrate"

func newDemoCmd(cfg *config.Config) *cobra.Command {
	var updates int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the two-display counter walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			if updates < 0 {
				return fmt.Errorf("--updates must not be negative, got %d", updates)
			}
			return runDemo(cmd.OutOrStdout(), updates, slog.Default())
		},
	}
	cmd.Flags().IntVar(&updates, "updates", cfg.Section("demo").Int("updates", 3), "updates before the second display detaches")
	return cmd
}

// runDemo walks through attaching, detaching and reattaching a display.
// Narration goes through a registry topic so it interleaves with display
// output on out.
func runDemo(out io.Writer, updates int, logger *slog.Logger) error {
	narrator := event.NewRegistry(logger)
	narrator.On(topicNarrate, func(line any) error {
		_, err := fmt.Fprintln(out, line)
		return err
	})
	defer narrator.Remove(topicNarrate)
	say := func(format string, args ...any) func() error {
		return func() error {
			return narrator.Dispatch(topicNarrate, fmt.Sprintf(format, args...))
		}
	}

	c := counter.New(event.WithLogger(logger))
	newDisplay := func(name string) *display.CountDisplay {
		return display.New(c, display.WithName(name), display.WithSink(out), display.WithLogger(logger))
	}

	var first, second *display.CountDisplay
	steps := []func() error{
		say("creating a count display, displaying the count"),
		func() error {
			first = newDisplay("display1")
			return first.Display()
		},
		say("creating a second display, displaying the count"),
		func() error {
			second = newDisplay("display2")
			return second.Display()
		},
		say("updating the count %d times, both displays render each update", updates),
		func() error {
			for i := 0; i < updates; i++ {
				if err := c.Update(); err != nil {
					return err
				}
			}
			return nil
		},
		say("unregistering the second display"),
		func() error {
			second.Unregister()
			return nil
		},
		say("updating the count, only the first display renders"),
		c.Update,
		say("the second display still holds %d", updates),
		func() error { return second.Display() },
		say("registering the second display again"),
		func() error {
			second.Register()
			return second.Display()
		},
		say("updating the count, both displays render the latest value"),
		c.Update,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
