// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/probelab/mcpwire/bench"
	"github.com/probelab/mcpwire/mcp"
	"github.com/probelab/mcpwire/wire"
)

var (
	benchBinaryAddr      string
	benchBinaryTransport string
	benchTextualAddr     string
	benchIterations      int
	benchSuite           string
	benchCallTimeout     time.Duration

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Compare call latency between the binary and textual transports",
		Long: `Compare call latency between the binary and textual transports.

Both servers must already be running and serving the same suite:
"tools" (ping/echo/slow_echo) or "github" (create/list/get issue).
Each iteration issues the call on the binary transport first, then the
textual one, so external latency drift hits both sides evenly.`,
		Example: `  mcpwire bench --suite tools --binary-addr localhost:9000 --textual-addr localhost:8001
  mcpwire bench --suite github --iterations 10`,
		RunE: runBench,
	}
)

func init() {
	benchCmd.Flags().StringVar(&benchBinaryAddr, "binary-addr", "localhost:9000", "binary server address")
	benchCmd.Flags().StringVar(&benchBinaryTransport, "binary-transport", wire.TransportFrame,
		"transport for the binary side: frame (grpc with -tags grpc builds)")
	benchCmd.Flags().StringVar(&benchTextualAddr, "textual-addr", "localhost:8001", "textual (HTTP) server address")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 5, "iterations per operation per transport")
	benchCmd.Flags().StringVar(&benchSuite, "suite", "github", "operation suite: github or tools")
	benchCmd.Flags().DurationVar(&benchCallTimeout, "call-timeout", bench.DefaultCallTimeout, "per-call timeout")
}

func runBench(cmd *cobra.Command, _ []string) error {
	var ops []bench.Operation
	switch benchSuite {
	case "github":
		ops = bench.GitHubOperations()
	case "tools":
		ops = bench.ToolOperations()
	default:
		return fmt.Errorf("unknown suite %q (want github or tools)", benchSuite)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect both sides before any timed work; either failure aborts the
	// run with no samples taken. Both connections are released on every
	// exit path.
	binaryConn, err := wire.Dial(ctx, benchBinaryAddr, wire.WithTransport(benchBinaryTransport))
	if err != nil {
		return fmt.Errorf("connect binary transport: %w", err)
	}
	binary := mcp.NewClient(binaryConn)
	defer binary.Close()

	textualConn, err := wire.Dial(ctx, benchTextualAddr, wire.WithTransport(wire.TransportHTTP))
	if err != nil {
		return fmt.Errorf("connect textual transport: %w", err)
	}
	textual := mcp.NewClient(textualConn)
	defer textual.Close()

	runner := &bench.Runner{
		Binary:      binary,
		Textual:     textual,
		Iterations:  benchIterations,
		CallTimeout: benchCallTimeout,
	}
	samples, err := runner.Run(ctx, ops)
	if err != nil {
		return err
	}

	bench.WriteReport(os.Stdout, samples)
	return nil
}
