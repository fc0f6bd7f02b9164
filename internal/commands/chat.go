package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/render"
	"github.com/diogo/typechat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat window",
		Long: `Open the chat window. Past conversations are fetched from the server
and listed in the sidebar; new messages get typed replies.

Keys: enter sends, tab switches between sidebar and input, ctrl+n starts a new
chat, ctrl+y copies the last reply, esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.chatOptions(offline)
			if err != nil {
				return err
			}
			return a.deps.TUI.RunChat(opts)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip loading history and start a new chat")
	return cmd
}

// chatOptions translates the configuration into TUI options. Offline
// sessions have no client and open on a new chat.
func (a *app) chatOptions(offline bool) (tui.Options, error) {
	opts := tui.Options{
		Timeout:       a.cfg.RequestTimeout(),
		Typing:        a.cfg.Typing.Engine(),
		ResponseDelay: a.cfg.Typing.ResponseDelay(),
		Theme:         render.ResolveTUITheme(a.cfg.TUITheme),
		Markdown:      render.FromConfig(a.cfg.Markdown, 0),
		Clipboard:     a.deps.Clipboard,
		Logger:        a.logger,
	}
	if offline {
		a.logger.Info("starting offline chat")
		return opts, nil
	}

	client, err := a.deps.NewHistoryClient(a.cfg.ServerURL, a.cfg.RequestTimeout(), a.logger)
	if err != nil {
		return opts, err
	}
	opts.Client = client
	a.logger.Info("starting chat", "endpoint", client.Endpoint())
	return opts, nil
}
