// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/probelab/mcpwire/github"
	"github.com/probelab/mcpwire/mcp"
	"github.com/probelab/mcpwire/wire"
)

var (
	serveAddr      string
	serveTransport string
	slowEchoDelay  time.Duration

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run a server over a chosen transport",
	}

	serveToolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "Serve the builtin tool server (echo, slow_echo)",
		RunE:  runServeTools,
	}

	serveGithubCmd = &cobra.Command{
		Use:   "github",
		Short: "Serve the GitHub issue-mediation server",
		Long: `Serve the GitHub issue-mediation server.

Requires GITHUB_TOKEN and GITHUB_REPO (owner/name) in the environment;
missing credentials abort startup before any serving begins.`,
		RunE: runServeGithub,
	}
)

func init() {
	serveCmd.PersistentFlags().StringVar(&serveAddr, "addr", ":9000", "listen address")
	serveCmd.PersistentFlags().StringVar(&serveTransport, "transport", wire.DefaultTransport,
		"transport to serve on: frame or http (grpc with -tags grpc builds)")
	serveToolsCmd.Flags().DurationVar(&slowEchoDelay, "slow-echo-delay", mcp.DefaultSlowEchoDelay,
		"pause built into the slow_echo tool")
	serveCmd.AddCommand(serveToolsCmd, serveGithubCmd)
}

func runServeTools(cmd *cobra.Command, _ []string) error {
	srv := mcp.NewServer("mcp-tool-server", mcp.Builtins(slowEchoDelay))
	return serve(cmd, srv, "mcp-tool-server", "")
}

func runServeGithub(cmd *cobra.Command, _ []string) error {
	cfg, err := github.ConfigFromEnv()
	if err != nil {
		return err
	}
	svc := github.NewService(github.NewClient(cfg, nil), cfg.Repo)
	log.Printf("[SERVE] mediating for repo %s", cfg.Repo)
	return serve(cmd, svc, "github-mcp-server", cfg.Repo)
}

func serve(cmd *cobra.Command, srv *mcp.Server, service, repo string) error {
	ws, err := wire.Listen(serveAddr,
		wire.WithServerTransport(serveTransport),
		wire.WithHealthInfo(service, repo),
	)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := srv.Attach(ws); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[SERVE] %s listening on %s (%s transport)", service, ws.Addr(), serveTransport)
	err = ws.Serve(ctx)
	if ctx.Err() != nil {
		log.Printf("[SERVE] shutting down")
		return nil
	}
	return err
}
