package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/history"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/render"
)

// NewHistoryCmd creates the history command and its subcommands
func NewHistoryCmd(a *app) *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored conversations",
		Long: `Browse the conversations the server returns, or a local data file with
--data.

` + history.ListAliases(),
	}
	cmd.PersistentFlags().StringVar(&dataFile, "data", "", "Read a local data file instead of the server")

	load := func(cmd *cobra.Command) (models.History, error) {
		return a.loadHistory(cmd, dataFile)
	}

	cmd.AddCommand(
		newHistoryListCmd(a, load),
		newHistoryShowCmd(a, load),
		newHistoryExportCmd(a, load),
		newHistorySearchCmd(a, load),
	)
	return cmd
}

type historyLoader func(cmd *cobra.Command) (models.History, error)

func newHistoryListCmd(a *app, load historyLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(h) == 0 {
				fmt.Fprintln(out, "No conversations found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHAT\tMESSAGES\tREPLIES\tFIRST MESSAGE")
			for _, s := range history.Summarize(h) {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Label, s.Messages, s.Replies, s.Preview)
			}
			return w.Flush()
		},
	}
}

func newHistoryShowCmd(a *app, load historyLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show one conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := load(cmd)
			if err != nil {
				return err
			}
			index, err := history.Resolve(args[0], h)
			if err != nil {
				return err
			}

			md := history.ExportToMarkdown(h[index], h.Label(index), history.DefaultExportOptions())
			out := cmd.OutOrStdout()
			if !a.deps.IsTerminal(out) {
				fmt.Fprint(out, md)
				return nil
			}
			rendered, err := render.Markdown(md, render.FromConfig(a.cfg.Markdown, a.deps.TerminalWidth()))
			if err != nil {
				return fmt.Errorf("failed to render conversation: %w", err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}

func newHistoryExportCmd(a *app, load historyLoader) *cobra.Command {
	var (
		output       string
		format       string
		noCategories bool
	)

	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Export a conversation as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := history.DefaultExportOptions()
			opts.IncludeCategories = !noCategories
			switch {
			case format != "":
				f, err := history.ParseExportFormat(format)
				if err != nil {
					return err
				}
				opts.Format = f
			case output != "":
				opts.Format = history.FormatForPath(output)
			}

			h, err := load(cmd)
			if err != nil {
				return err
			}
			index, err := history.Resolve(args[0], h)
			if err != nil {
				return err
			}

			data, err := history.Export(h[index], h.Label(index), opts)
			if err != nil {
				return fmt.Errorf("failed to export conversation: %w", err)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Info("conversation exported", "chat", h.Label(index), "path", output, "format", opts.Format)
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", h.Label(index), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "markdown or json (default from the file extension)")
	cmd.Flags().BoolVar(&noCategories, "no-categories", false, "Leave out category tags")
	return cmd
}

func newHistorySearchCmd(a *app, load historyLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find conversations containing text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			h, err := load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			results := history.Search(h, query)
			if len(results) == 0 {
				fmt.Fprintf(out, "No conversations match %q.\n", query)
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s (message %d): %s\n", h.Label(r.Index), r.MessageIndex+1, r.MatchSnippet)
			}
			return nil
		},
	}
}

// loadHistory reads dataFile when set, otherwise fetches from the server.
func (a *app) loadHistory(cmd *cobra.Command, dataFile string) (models.History, error) {
	if dataFile != "" {
		return history.NewStore(dataFile).Load()
	}

	client, err := a.deps.NewHistoryClient(a.cfg.ServerURL, a.cfg.RequestTimeout(), a.logger)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout())
	defer cancel()

	errOut := cmd.ErrOrStderr()
	sp := newSpinner(errOut, render.ResolveTUITheme(a.cfg.TUITheme), "Fetching conversations")
	interactive := a.deps.IsTerminal(errOut)
	if interactive {
		sp.start()
	}
	h, err := client.FetchConversations(ctx)
	if err != nil {
		sp.stopWithError()
		return nil, err
	}
	if interactive {
		sp.stopWithSuccess(fmt.Sprintf("Loaded %d conversations from %s", len(h), client.Endpoint()))
	} else {
		sp.stopWithError()
	}
	return h, nil
}
