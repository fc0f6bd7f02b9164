package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/history"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/render"
	"github.com/diogo/typechat/internal/storage/sqlite"
)

// NewImportCmd creates the import command
func NewImportCmd(a *app) *cobra.Command {
	var (
		dbPath   string
		dataFile string
		replace  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import conversations from a JSON document",
		Long: `Import a conversations document ({"conversations": [...]}) into the
SQLite database or the data file the server reads. The database is used when
--db (or db_path) is set.

Examples:
  typechat import backup.json
  typechat import backup.json --db ~/.typechat/conversations.db
  typechat import backup.json --data data/conversations.json --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := history.NewStore(args[0]).Load()
			if err != nil {
				return err
			}

			if dbPath == "" && dataFile == "" {
				dbPath = a.cfg.DBPath
				dataFile = a.cfg.DataFile
			}

			var (
				target string
				total  int
			)
			if dbPath != "" {
				target = dbPath
				total, err = a.importToDB(cmd, dbPath, incoming, replace)
			} else {
				target = dataFile
				total, err = importToFile(dataFile, incoming, replace)
			}
			if err != nil {
				return err
			}

			a.logger.Info("conversations imported", "source", args[0], "target", target, "count", len(incoming), "total", total)
			printSuccess(cmd.ErrOrStderr(), render.ResolveTUITheme(a.cfg.TUITheme), fmt.Sprintf("Imported %d conversations into %s (%d total)", len(incoming), target, total))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to import into")
	cmd.Flags().StringVar(&dataFile, "data", "", "Data file to import into")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace existing conversations instead of appending")
	cmd.MarkFlagsMutuallyExclusive("db", "data")
	return cmd
}

func (a *app) importToDB(cmd *cobra.Command, path string, incoming models.History, replace bool) (int, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	ctx := cmd.Context()
	if replace {
		if err := store.Clear(ctx); err != nil {
			return 0, err
		}
	}
	if _, err := store.ImportHistory(ctx, incoming); err != nil {
		return 0, err
	}
	return store.Count(ctx)
}

func importToFile(path string, incoming models.History, replace bool) (int, error) {
	store := history.NewStore(path)
	if replace {
		if err := store.Save(incoming); err != nil {
			return 0, err
		}
		return len(incoming), nil
	}
	return store.Append(incoming)
}
