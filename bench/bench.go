// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bench runs identical logical operations over both transports and
// compares their latency distributions.
package bench

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/probelab/mcpwire/mcp"
)

// Transport labels a sample's side of the comparison.
type Transport string

const (
	// TransportBinary is the frame (or grpc) side.
	TransportBinary Transport = "binary"
	// TransportTextual is the JSON-RPC-over-HTTP side.
	TransportTextual Transport = "textual"
)

// Sample is one timed observation of one operation over one transport.
// The sequence of samples a run produces is append-only and ordered by
// capture time; reporting filters and groups but never reorders.
type Sample struct {
	Operation   string
	Transport   Transport
	LatencyMS   float64
	Success     bool
	PayloadSize int
}

// Operation is one logical call the harness can time. Invoke performs the
// call on the given client and returns an informational payload size.
type Operation struct {
	Name   string
	Invoke func(ctx context.Context, c *mcp.Client) (int, error)
}

// DefaultCallTimeout bounds each timed call. A hung remote becomes a
// failed sample instead of blocking the run forever.
const DefaultCallTimeout = 10 * time.Second

// Runner drives one benchmark run. Both clients must be dialed before Run;
// the caller keeps responsibility for closing them.
type Runner struct {
	Binary     *mcp.Client
	Textual    *mcp.Client
	Iterations int

	// CallTimeout overrides DefaultCallTimeout when positive.
	CallTimeout time.Duration

	// Logf receives progress lines; nil means log.Printf.
	Logf func(format string, args ...interface{})
}

// Run executes every operation Iterations times on each transport,
// interleaving binary then textual within each iteration so that drift in
// external conditions hits both sides evenly. Both servers must answer a
// readiness ping before any sample is taken; if either does not, no
// samples are taken at all.
func (r *Runner) Run(ctx context.Context, ops []Operation) ([]Sample, error) {
	if r.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", r.Iterations)
	}
	logf := r.Logf
	if logf == nil {
		logf = log.Printf
	}
	timeout := r.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	if err := r.checkReady(ctx, timeout); err != nil {
		return nil, err
	}
	logf("[BENCH] both servers ready, running %d iterations per operation", r.Iterations)

	samples := make([]Sample, 0, len(ops)*r.Iterations*2)
	for _, op := range ops {
		logf("[BENCH] testing %s...", op.Name)
		for i := 0; i < r.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return samples, err
			}
			samples = append(samples, r.sample(ctx, op, TransportBinary, r.Binary, timeout, logf))
			samples = append(samples, r.sample(ctx, op, TransportTextual, r.Textual, timeout, logf))
		}
	}
	return samples, nil
}

func (r *Runner) checkReady(ctx context.Context, timeout time.Duration) error {
	for _, side := range []struct {
		transport Transport
		client    *mcp.Client
	}{
		{TransportBinary, r.Binary},
		{TransportTextual, r.Textual},
	} {
		if side.client == nil {
			return fmt.Errorf("%s client is nil", side.transport)
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		_, err := side.client.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s server not ready: %w", side.transport, err)
		}
	}
	return nil
}

// sample times exactly the call itself; operation setup happens inside
// Invoke but amounts to building small argument structs.
func (r *Runner) sample(ctx context.Context, op Operation, transport Transport, client *mcp.Client, timeout time.Duration, logf func(string, ...interface{})) Sample {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	size, err := op.Invoke(callCtx, client)
	latency := time.Since(start)

	if err != nil {
		logf("[BENCH] %s/%s failed: %v", op.Name, transport, err)
	}
	return Sample{
		Operation:   op.Name,
		Transport:   transport,
		LatencyMS:   float64(latency) / float64(time.Millisecond),
		Success:     err == nil,
		PayloadSize: size,
	}
}

// GitHubOperations are the issue-mediation operations, matching the
// original comparison: create, list, get.
func GitHubOperations() []Operation {
	var seq atomic.Int64
	return []Operation{
		{
			Name: "create_issue",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				n := seq.Add(1)
				title := fmt.Sprintf("Benchmark Issue %d", n)
				body := fmt.Sprintf("This is benchmark issue #%d created for performance testing.", n)
				_, err := c.CreateIssue(ctx, title, body)
				return len(title) + len(body), err
			},
		},
		{
			Name: "list_issues",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				issues, err := c.ListIssues(ctx, "open", 30)
				return len(issues), err
			},
		},
		{
			Name: "get_issue",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				issue, err := c.GetIssue(ctx, 1)
				if err != nil {
					return 0, err
				}
				return len(issue.Title) + len(issue.Body), nil
			},
		},
	}
}

// ToolOperations are the collaborator-free operations: a bare round trip,
// a trivial tool call, and a tool call with a built-in server-side delay.
func ToolOperations() []Operation {
	return []Operation{
		{
			Name: "ping",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				pong, err := c.Ping(ctx)
				return len(pong), err
			},
		},
		{
			Name: "echo",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				res, err := c.CallTool(ctx, "echo", map[string]interface{}{"text": "benchmark"})
				if err != nil {
					return 0, err
				}
				if !res.Success {
					return len(res.Content), fmt.Errorf("tool failure: %s", res.Content)
				}
				return len(res.Content), nil
			},
		},
		{
			Name: "slow_echo",
			Invoke: func(ctx context.Context, c *mcp.Client) (int, error) {
				res, err := c.CallTool(ctx, "slow_echo", map[string]interface{}{"text": "benchmark"})
				if err != nil {
					return 0, err
				}
				if !res.Success {
					return len(res.Content), fmt.Errorf("tool failure: %s", res.Content)
				}
				return len(res.Content), nil
			},
		},
	}
}
