package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-api/internal/config"
	"github.com/naka-gawa/portfolio-api/internal/server"
	"github.com/naka-gawa/portfolio-api/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API",
	Long: `Runs the HTTP API:

  GET /content/:lang  resolved site content
  GET /github         GitHub statistics summary
  OPTIONS *           CORS preflight

The server stops gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger := newLogger(cmd, true)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}
		if err := cfg.RequireContent(); err != nil {
			fatalf("Error: %v", err)
		}
		if err := cfg.RequireStats(); err != nil {
			fatalf("Error: %v", err)
		}

		content, err := newContentService(ctx, cfg, logger)
		if err != nil {
			fatalf("%v", err)
		}
		githubGateway, err := newGitHubGateway(cfg, logger)
		if err != nil {
			fatalf("%v", err)
		}

		srv := server.NewServer(server.Config{
			Content:         content,
			Stats:           usecase.NewStatsService(githubGateway, cfg.GitHubUser, logger),
			Addr:            cfg.Addr,
			ExposeErrors:    cfg.ExposeErrors,
			ShutdownTimeout: cfg.ShutdownTimeout,
			Logger:          logger,
		})
		if err := srv.Serve(ctx); err != nil {
			fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	serveCmd.Flags().String("meta-tab", config.DefaultMetaTab, "Tab id of the meta tab")
	serveCmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout, "Timeout of each upstream fetch")
	serveCmd.Flags().Bool("expose-errors", false, "Return raw failure messages from the content route")
}
