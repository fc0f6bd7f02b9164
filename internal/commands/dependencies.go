package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/typechat/internal/api"
	"github.com/diogo/typechat/internal/config"
	"github.com/diogo/typechat/internal/logging"
	"github.com/diogo/typechat/internal/tui"
	"github.com/diogo/typechat/internal/typing"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig reads the .env file, the config file and the environment.
	LoadConfig func() (config.Config, error)
	// LoadConfigFile reads only the config file, for editing.
	LoadConfigFile func() (config.Config, error)
	// SaveConfig persists the config file.
	SaveConfig func(config.Config) error
	// InitLogging configures the process logger.
	InitLogging func(cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error)

	// NewHistoryClient builds the client used to fetch conversations.
	NewHistoryClient func(baseURL string, timeout time.Duration, logger *slog.Logger) (api.HistoryClientInterface, error)

	Clipboard func(string) error
	// IsTerminal reports whether w is an interactive terminal.
	IsTerminal func(w io.Writer) bool
	// TerminalWidth returns the width of stdout, or 0 when unknown.
	TerminalWidth func() int
	// Sleep paces the one-shot typing animation.
	Sleep func(ctx context.Context, d time.Duration) error

	Stdin io.Reader
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.Options) error {
	return tui.RunChat(opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:              &DefaultTUI{},
		LoadConfig:       config.Load,
		LoadConfigFile:   config.LoadConfig,
		SaveConfig:       config.SaveConfig,
		InitLogging:      logging.Init,
		NewHistoryClient: newHistoryClient,
		Clipboard:        clipboard.WriteAll,
		IsTerminal:       isTerminal,
		TerminalWidth:    getTerminalWidth,
		Sleep:            typing.SleepContext,
		Stdin:            os.Stdin,
	}
}

func newHistoryClient(baseURL string, timeout time.Duration, logger *slog.Logger) (api.HistoryClientInterface, error) {
	return api.NewHistoryClient(baseURL, api.WithTimeout(timeout), api.WithLogger(logger))
}

// isTerminal checks if w is an *os.File attached to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
