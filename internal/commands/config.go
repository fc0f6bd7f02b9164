package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/config"
	"github.com/diogo/typechat/internal/render"
)

// NewConfigCmd creates the config command
func NewConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change settings stored in the config file. Environment
variables (TYPECHAT_*) and a .env file in the working directory override the
file at runtime.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, a.cfg)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd, a.cfg)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List settable keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, k := range config.Keys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := a.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting in the config file",
			Example: `  typechat config set server_url http://localhost:8080
  typechat config set typing.mode uniform
  typechat config set tui_theme nord`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.setConfig(cmd, args[0], args[1])
			},
		},
	)
	return cmd
}

func showConfig(cmd *cobra.Command, cfg config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// setConfig edits the file settings only, so environment overrides are never
// written back.
func (a *app) setConfig(cmd *cobra.Command, key, value string) error {
	cfg, err := a.deps.LoadConfigFile()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (starting from defaults)\n", err)
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := a.deps.SaveConfig(cfg); err != nil {
		return err
	}

	saved, _ := cfg.Get(key)
	a.logger.Info("config updated", "key", key, "value", saved)
	printSuccess(cmd.OutOrStdout(), render.ResolveTUITheme(cfg.TUITheme), fmt.Sprintf("%s = %s", key, saved))
	return nil
}
