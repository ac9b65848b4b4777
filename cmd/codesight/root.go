package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/loopwork-ai/codesight/internal"
	"github.com/loopwork-ai/codesight/internal/catalog"
	"github.com/loopwork-ai/codesight/internal/config"
	"github.com/loopwork-ai/codesight/mcp"
)

var rootCmd = &cobra.Command{
	Use:   "codesight",
	Short: "An MCP server for code statistics and Python structure analysis",
	Long: `codesight serves file-statistics and Python-structure tools over the
Model Context Protocol. By default it speaks JSON-RPC over stdio, reading
requests from stdin and writing responses to stdout; with --http it serves
the same requests on a stateless HTTP endpoint instead.

Relative file and directory arguments passed to tools resolve against the
project root (--root, or analyzer.root in the config file).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		if rootDir != "" {
			cfg.Analyzer.Root = rootDir
		}
		if httpAddr != "" {
			cfg.HTTP.Address = httpAddr
		}

		if info, err := os.Stat(cfg.Analyzer.Root); err != nil {
			return fmt.Errorf("project root %s: %w", cfg.Analyzer.Root, err)
		} else if !info.IsDir() {
			return fmt.Errorf("project root is not a directory: %s", cfg.Analyzer.Root)
		}

		registry, err := catalog.NewRegistry(cfg.Analyzer)
		if err != nil {
			return fmt.Errorf("error building tool registry: %w", err)
		}

		resource, readResource := catalog.GreetingResource()
		template, readTemplate := catalog.GreetingTemplate()

		server, err := mcp.NewServer(
			mcp.WithRegistry(registry),
			mcp.WithLogger(logger),
			mcp.WithServerInfo(cfg.Server.Name, cfg.Server.Version),
			mcp.WithInstructions(cfg.Server.Instructions),
			mcp.WithResource(resource, readResource),
			mcp.WithResourceTemplate(template, readTemplate),
		)
		if err != nil {
			return fmt.Errorf("error creating server: %w", err)
		}

		if !serveHTTP {
			g.Go(func() error {
				logger.Info("serving on stdio", "root", cfg.Analyzer.Root)
				transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr)
				return transport.Run(ctx)
			})
			return g.Wait()
		}

		token, isSecret, err := internal.ResolveSecretReference(ctx, cfg.HTTP.Token)
		if err != nil {
			return fmt.Errorf("error resolving token: %w", err)
		}
		if isSecret {
			logger.Info("resolved bearer token from 1Password")
		}

		transport := mcp.NewHTTPTransport(server,
			mcp.WithPath(cfg.HTTP.Path),
			mcp.WithBearerToken(token),
			mcp.WithHTTPLogger(logger),
		)

		httpServer := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           transport.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("serving HTTP", "addr", cfg.HTTP.Address, "path", cfg.HTTP.Path, "root", cfg.Analyzer.Root)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

var (
	configFile string
	rootDir    string
	serveHTTP  bool
	httpAddr   string
	verbose    bool

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&rootDir, "root", "", "Project root directory (overrides config)")
	rootCmd.Flags().BoolVar(&serveHTTP, "http", false, "Serve over HTTP instead of stdio")
	rootCmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}
