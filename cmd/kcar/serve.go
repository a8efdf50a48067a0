package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kcar/core/cmd/kcar/middleware"
	"github.com/kcar/core/internal/handlers"
	"github.com/kcar/core/internal/relgraph"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "web"},
	Short:   "Run the HTTP API",
	Long:    "Serves health, graph and Steiner query endpoints over one loaded relatedness graph",
	PreRun: func(_ *cobra.Command, _ []string) {
		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			g    *relgraph.Graph
			name string
			err  error
		)
		if g, name, err = loadGraph(); err != nil {
			if !errors.Is(err, errNoSource) {
				log.Fatalf("main: %s", err)
			}
			log.Warn("No dataset loaded, only requests carrying a dataset can be answered")
		}

		server := &http.Server{
			Addr: WebAddr,
			Handler: newRouter(g, handlers.Config{
				Dataset:        name,
				QueryTimeout:   QueryTimeout,
				SolverOptions:  solverOptions(),
				InlineMaxCells: InlineMaxCells,
			}),
		}

		go func() {
			log.WithField("addr", WebAddr).WithField("dataset", name).Info("🚀 Server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("main: %s", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %s", err)
		}
	},
}

func newRouter(g *relgraph.Graph, cfg handlers.Config) http.Handler {
	return middleware.Logging(middleware.Cors(handlers.NewServer(g, cfg).Routes()))
}
