package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/typechat/internal/api"
	"github.com/diogo/typechat/internal/config"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/tui"
)

const testDocument = `{"conversations": [
  [
    {"role": "user", "content": "hello there"},
    {"role": "system", "content": "Hello! How can I assist you today?", "categories": ["Greeting", "Introduction"]}
  ],
  [
    {"role": "user", "content": "what about the weather"}
  ]
]}`

// mockTUI records the options of every RunChat call
type mockTUI struct {
	calls int
	opts  tui.Options
	err   error
}

func (m *mockTUI) RunChat(opts tui.Options) error {
	m.calls++
	m.opts = opts
	return m.err
}

// testEnv is a Dependencies set with no terminal, no clipboard and no sleeping
type testEnv struct {
	deps      *Dependencies
	cfg       config.Config
	tui       *mockTUI
	client    *api.MockHistoryClient
	clientURL string
	copied    []string
	terminal  bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(config.EnvPrefix+"HOME", t.TempDir())

	env := &testEnv{
		cfg:    config.DefaultConfig(),
		tui:    &mockTUI{},
		client: &api.MockHistoryClient{},
	}
	env.deps = &Dependencies{
		TUI: env.tui,
		LoadConfig: func() (config.Config, error) {
			return env.cfg, nil
		},
		LoadConfigFile: config.LoadConfig,
		SaveConfig:     config.SaveConfig,
		InitLogging: func(config.Config, io.Writer) (*slog.Logger, io.Closer, error) {
			return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
		},
		NewHistoryClient: func(baseURL string, timeout time.Duration, logger *slog.Logger) (api.HistoryClientInterface, error) {
			env.clientURL = baseURL
			return env.client, nil
		},
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		IsTerminal:    func(io.Writer) bool { return env.terminal },
		TerminalWidth: func() int { return 80 },
		Sleep: func(ctx context.Context, d time.Duration) error {
			return ctx.Err()
		},
	}
	return env
}

// run executes the root command with args and returns stdout and stderr
func (e *testEnv) run(args ...string) (string, string, error) {
	return e.runContext(context.Background(), args...)
}

func (e *testEnv) runContext(ctx context.Context, args ...string) (string, string, error) {
	cmd := NewRootCmd(e.deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeTestDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	return path
}

func testHistory() models.History {
	return models.History{
		models.NewConversation(
			models.NewUserMessage("hello there"),
			models.NewSystemMessage("Hello! How can I assist you today?", []string{"Greeting", "Introduction"}),
		),
		models.NewConversation(
			models.NewUserMessage("what about the weather"),
		),
	}
}
