package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/typechat/internal/server"
	"github.com/diogo/typechat/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	Addr     string
	DataFile string
	DBPath   string
	Watch    bool
}

// NewServeCmd creates the history server command
func NewServeCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored conversations over HTTP",
		Long: `Serve GET /api/conversations from a conversations data file, or from a
SQLite database when --db (or db_path) is set. A missing or invalid data file
is served as an empty list.

Examples:
  typechat serve
  typechat serve --addr :8080 --data ./conversations.json --watch
  typechat serve --db ~/.typechat/conversations.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts = a.serveDefaults(opts)
			source, closer, err := a.openSource(ctx, opts)
			if err != nil {
				return err
			}
			defer closer.Close()

			listener, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving conversations on http://%s\n", listener.Addr())
			return a.serve(ctx, listener, server.New(source, a.logger))
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from listen_addr)")
	cmd.Flags().StringVar(&opts.DataFile, "data", "", "Conversations data file (default from data_file)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "Serve from a SQLite database instead of a data file")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the data file when it changes")
	return cmd
}

func (a *app) serveDefaults(opts serveOptions) serveOptions {
	if opts.Addr == "" {
		opts.Addr = a.cfg.ListenAddr
	}
	if opts.DataFile == "" {
		opts.DataFile = a.cfg.DataFile
	}
	if opts.DBPath == "" {
		opts.DBPath = a.cfg.DBPath
	}
	return opts
}

// openSource selects the database when a path is set, else the data file.
func (a *app) openSource(ctx context.Context, opts serveOptions) (server.Source, io.Closer, error) {
	if opts.DBPath != "" {
		store, err := sqlite.Open(opts.DBPath)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("serving from database", "path", opts.DBPath)
		return server.NewSQLiteSource(store), store, nil
	}

	source := server.NewFileSource(opts.DataFile, a.logger)
	if opts.Watch {
		if err := source.Watch(ctx, server.DefaultDebounce); err != nil {
			return nil, nil, fmt.Errorf("failed to watch %s: %w", opts.DataFile, err)
		}
	}
	return source, io.NopCloser(nil), nil
}

// serve runs the HTTP server on listener until ctx is cancelled, then shuts
// it down gracefully.
func (a *app) serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := server.NewHTTPServer(listener.Addr().String(), handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	a.logger.Info("server started", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
