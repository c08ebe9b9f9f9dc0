package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lemmego/observer/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           cfg.Section("app").String("name", "countdemo"),
		Short:         "Counter and display observers, driven from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Section("log").String("level", "info"), "log level (debug, info, warn, error)")

	root.AddCommand(newDemoCmd(cfg))
	root.AddCommand(newInteractiveCmd(cfg))
	return root
}

// Execute runs the command tree with configuration from the environment.
func Execute() error {
	return NewRootCmd(config.Load()).Execute()
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
