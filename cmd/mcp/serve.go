// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/command"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/config"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/k8s"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server in stdio or http mode",
	RunE:  serveCmdRun,
}

func serveCmdRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(rootArgs.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Spec.Logging, os.Stderr)
	ctrllog.SetLogger(logger)

	recorder := metrics.NewRecorder()
	kubeconfig := k8s.NewKubeConfig(kubeconfigArgs)
	runner := command.NewExecRunner(cfg.ProbeTimeout())
	mcpServer := newMCPServer(cfg, kubeconfig, runner, recorder, logger)

	ctx := ctrl.SetupSignalHandler()

	if cfg.Spec.Transport == config.TransportHTTP {
		return serveHTTP(ctx, mcpServer, cfg.Spec.Port, recorder, logger)
	}

	logger.Info("serving MCP over stdio", "version", VERSION)
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadConfig builds the configuration from the file, the environment
// and the flags set on the command line, then validates it.
func loadConfig(path string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(path, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newHTTPHandler serves the MCP streamable transport on /mcp and the metrics on /metrics.
func newHTTPHandler(mcpServer *mcp.Server, recorder *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil))
	mux.Handle("/metrics", recorder.Handler())
	return mux
}

// serveHTTP runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func serveHTTP(ctx context.Context, mcpServer *mcp.Server, port int,
	recorder *metrics.Recorder, logger logr.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newHTTPHandler(mcpServer, recorder),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving MCP over http", "version", VERSION, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
