package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apierrors "github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/render"
	"github.com/diogo/typechat/internal/responder"
	"github.com/diogo/typechat/internal/tui"
	"github.com/diogo/typechat/internal/typing"
)

type queryOptions struct {
	// Raw prints only the reply text, without typing or tags
	Raw bool
	// Output also writes the reply text to this file
	Output string
}

// runQuery generates a single reply and outputs it. On a terminal the reply
// is typed out the way the chat window does it; otherwise it is rendered
// once, or printed bare with --raw.
func (a *app) runQuery(cmd *cobra.Command, prompt string, opts queryOptions) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return apierrors.ErrEmptyPrompt
	}

	reply := responder.Generate(prompt)
	a.logger.Info("one-shot reply", "prompt_chars", len(prompt), "categories", reply.Categories)

	out := cmd.OutOrStdout()
	msg := models.NewSystemMessage(reply.Text, reply.Categories)

	switch {
	case opts.Raw:
		fmt.Fprintln(out, reply.Text)
	case a.deps.IsTerminal(out):
		if err := a.typeReply(cmd.Context(), out, cmd.ErrOrStderr(), msg); err != nil {
			return err
		}
	default:
		mdOpts := render.FromConfig(a.cfg.Markdown, a.deps.TerminalWidth()).WithStyle(render.StyleNoTTY)
		rendered, err := render.Reply(msg, mdOpts)
		if err != nil {
			return fmt.Errorf("failed to render reply: %w", err)
		}
		fmt.Fprint(out, rendered)
	}

	if a.cfg.CopyToClipboard {
		if err := a.deps.Clipboard(reply.Text); err != nil {
			a.logger.Warn("failed to copy reply", "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to copy to clipboard: %v\n", err)
		}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(reply.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.Raw {
			fmt.Fprintf(cmd.ErrOrStderr(), "Reply saved to %s\n", opts.Output)
		}
	}
	return nil
}

// typeReply plays the typing animation on out. The thinking phase is shown as
// a spinner on errOut; characters go to out as they are revealed and the tags
// follow on their own line.
func (a *app) typeReply(ctx context.Context, out, errOut io.Writer, msg models.Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	theme := render.ResolveTUITheme(a.cfg.TUITheme)
	styles := tui.NewStyles(theme)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	sched := &typing.BlockingScheduler{Ctx: ctx, Sleep: a.deps.Sleep}
	plan := typing.NewPlan(msg.Content, a.cfg.Typing.Engine(), rand.New(rand.NewSource(time.Now().UnixNano())))
	sp := newSpinner(errOut, theme, "Thinking")
	defer sp.stopWithError()

	printed := 0
	anim := typing.NewAnimation(plan, sched, typing.Hooks{
		OnChange: func(an *typing.Animation) {
			switch an.Phase() {
			case typing.PhaseThinking:
				sp.start()
			case typing.PhaseRevealing:
				if printed == 0 && an.Revealed() == 0 {
					sp.stopWithError()
					fmt.Fprintln(out, labelStyle.Render("✦ Assistant"))
				}
				runes := []rune(an.Text())
				fmt.Fprint(out, string(runes[printed:]))
				printed = len(runes)
			case typing.PhaseTagging:
				fmt.Fprintln(out)
			}
		},
		OnComplete: func(an *typing.Animation) {
			if tags := styles.RenderTags(msg.Tags()); tags != "" {
				fmt.Fprintln(out, tags)
			}
		},
	})

	sched.After(a.cfg.Typing.ResponseDelay(), anim.Start)
	if !anim.Done() {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(out)
			return err
		}
	}
	return nil
}
