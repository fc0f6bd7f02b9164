package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/typechat/internal/config"
	apierrors "github.com/diogo/typechat/internal/errors"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd(newTestEnv(t).deps)

	if cmd.Use != "typechat [prompt]" {
		t.Errorf("Use = %q", cmd.Use)
	}
	for _, name := range []string{"chat", "serve", "history", "import", "config"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
	for _, flag := range []string{"file", "output", "raw", "version"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s missing", flag)
		}
	}
	for _, flag := range []string{"server", "log-level"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	env := newTestEnv(t)
	stdout, _, err := env.run("--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "typechat "+Version) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRootCommand_NoInputShowsHelp(t *testing.T) {
	env := newTestEnv(t)
	stdout, _, err := env.run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("expected help output, got %q", stdout)
	}
}

func TestRootCommand_Query(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		contains []string
		excludes []string
	}{
		{
			name:     "raw reply",
			args:     []string{"--raw", "hello"},
			contains: []string{"Hello! How can I assist you today?"},
			excludes: []string{"[Greeting]"},
		},
		{
			name:     "rendered with tags",
			args:     []string{"tell me about the weather"},
			contains: []string{"real-time weather data", "[Weather] [Meteorology] [Clarification]"},
		},
		{
			name:     "default reply",
			args:     []string{"--raw", "xyzzy"},
			contains: []string{"That's an interesting question."},
		},
		{
			name:     "stdin",
			stdin:    "hello from a pipe\n",
			args:     []string{"--raw"},
			contains: []string{"Hello! How can I assist you today?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.stdin != "" {
				env.deps.Stdin = strings.NewReader(tt.stdin)
			}
			stdout, _, err := env.run(tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(stdout, unwanted) {
					t.Errorf("stdout should not contain %q:\n%s", unwanted, stdout)
				}
			}
		})
	}
}

func TestRootCommand_QueryFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("Hey!"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := env.run("--raw", "-f", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout) != "Hello! How can I assist you today?" {
		t.Errorf("stdout = %q", stdout)
	}

	if _, _, err := env.run("-f", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for a missing prompt file")
	}
}

func TestRootCommand_EmptyPrompt(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Stdin = strings.NewReader("   \n")

	_, _, err := env.run()
	if !errors.Is(err, apierrors.ErrEmptyPrompt) {
		t.Errorf("err = %v, want ErrEmptyPrompt", err)
	}
}

func TestRootCommand_OutputFileAndClipboard(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.CopyToClipboard = true
	out := filepath.Join(t.TempDir(), "reply.txt")

	_, stderr, err := env.run("-o", out, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "Hello! How can I assist you today?\n" {
		t.Errorf("output file = %q", data)
	}
	if !strings.Contains(stderr, "Reply saved to") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(env.copied) != 1 || env.copied[0] != "Hello! How can I assist you today?" {
		t.Errorf("clipboard = %v", env.copied)
	}
}

func TestRootCommand_TypedReply(t *testing.T) {
	env := newTestEnv(t)
	env.terminal = true

	stdout, _, err := env.run("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"✦ Assistant", "Hello! How can I assist you today?", "Greeting", "Introduction"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	// tags come after the text
	if strings.Index(stdout, "Greeting") < strings.Index(stdout, "today?") {
		t.Errorf("tags printed before the reply:\n%s", stdout)
	}
}

func TestRootCommand_TypedReplyCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.terminal = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := env.runContext(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRootCommand_SetupOverrides(t *testing.T) {
	env := newTestEnv(t)
	var seen config.Config
	env.deps.InitLogging = func(cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
		seen = cfg
		return nil, nil, nil
	}

	if _, _, err := env.run("--server", "http://example.test:9000", "--log-level", "debug", "chat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.ServerURL != "http://example.test:9000" {
		t.Errorf("ServerURL = %q", seen.ServerURL)
	}
	if seen.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", seen.LogLevel)
	}
	if env.clientURL != "http://example.test:9000" {
		t.Errorf("client built for %q", env.clientURL)
	}
}

func TestRootCommand_ConfigErrorIsWarning(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = func() (config.Config, error) {
		return config.DefaultConfig(), errors.New("failed to parse config file")
	}

	_, stderr, err := env.run("--raw", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "warning: failed to parse config file") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestReadPrompt(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stdin  io.Reader
		want   string
		wantOK bool
	}{
		{name: "nothing", wantOK: false},
		{name: "argument", args: []string{"hi"}, want: "hi", wantOK: true},
		{name: "stdin", stdin: strings.NewReader("piped"), want: "piped", wantOK: true},
		{name: "stdin wins", args: []string{"arg"}, stdin: strings.NewReader("piped"), want: "piped", wantOK: true},
		{name: "empty stdin falls back to argument", args: []string{"arg"}, stdin: strings.NewReader(""), want: "arg", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := readPrompt(tt.args, "", tt.stdin)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("readPrompt() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
