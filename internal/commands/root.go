// Package commands provides CLI commands for typechat.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/config"
	"github.com/diogo/typechat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app is the state shared by every command of one invocation.
type app struct {
	deps   *Dependencies
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer

	serverFlag   string
	logLevelFlag string
}

// NewRootCmd builds the typechat command tree around deps.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &app{deps: deps, logger: slog.New(slog.DiscardHandler)}

	var (
		fileFlag    string
		outputFlag  string
		rawFlag     bool
		versionFlag bool
	)

	cmd := &cobra.Command{
		Use:   "typechat [prompt]",
		Short: "A chat window with a simulated typing assistant",
		Long: `typechat is a terminal chat client. Replies come from a keyword
responder and are typed out character by character; past conversations are
loaded from a typechat server.

Examples:
  typechat serve                        Serve data/conversations.json
  typechat chat                         Start the chat window
  typechat "hello there"                Ask for a single reply
  typechat -f prompt.txt                Read the prompt from a file
  echo "weather?" | typechat            Read the prompt from stdin
  typechat history list                 List stored conversations`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "typechat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(args, fileFlag, deps.Stdin)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return a.runQuery(cmd, prompt, queryOptions{Raw: rawFlag, Output: outputFlag})
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the prompt from a file")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Also write the reply text to a file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the reply text only, without typing or tags")
	cmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	cmd.PersistentFlags().StringVar(&a.serverFlag, "server", "", "Server base URL (overrides server_url)")
	cmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		NewChatCmd(a),
		NewServeCmd(a),
		NewHistoryCmd(a),
		NewImportCmd(a),
		NewConfigCmd(a),
	)
	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewDependencies()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}

// setup loads the configuration and starts logging. A broken config file is
// reported and replaced by defaults so that `config set` can still repair it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if a.serverFlag != "" {
		cfg.ServerURL = a.serverFlag
	}
	if a.logLevelFlag != "" {
		cfg.LogLevel = a.logLevelFlag
	}
	a.cfg = cfg

	// serve is the only command that does not own the terminal
	var console io.Writer
	if cmd.Name() == "serve" {
		console = cmd.ErrOrStderr()
	}
	logger, closer, err := a.deps.InitLogging(cfg, console)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	if logger != nil {
		a.logger = logger
	}
	a.closer = closer
	a.logger.Debug("command started", "command", cmd.CommandPath())
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}

// readPrompt picks the prompt from a file, piped stdin or the positional
// argument, in that order. ok is false when there is no input at all.
func readPrompt(args []string, file string, stdin io.Reader) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > 0 || len(args) == 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether stdin is a pipe or file rather than a terminal.
// Readers that are not files (tests) count as piped.
func hasPipedInput(stdin io.Reader) bool {
	if stdin == nil {
		return false
	}
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
