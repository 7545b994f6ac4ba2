// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/probelab/mcpwire/wire"
)

const testSlowDelay = 100 * time.Millisecond

// startBothTransports serves one Server over frame and http and returns a
// typed client per transport, keyed by transport name.
func startBothTransports(t *testing.T, srv *Server) map[string]*Client {
	t.Helper()
	ctx := context.Background()

	clients := make(map[string]*Client)
	for _, transport := range []string{wire.TransportFrame, wire.TransportHTTP} {
		ws, err := wire.Listen(":0", wire.WithServerTransport(transport), wire.WithHealthInfo("mcp-test", ""))
		if err != nil {
			t.Fatalf("Listen %s: %v", transport, err)
		}
		t.Cleanup(func() { ws.Close() })
		if err := srv.Attach(ws); err != nil {
			t.Fatalf("Attach %s: %v", transport, err)
		}
		go ws.Serve(ctx)
		time.Sleep(10 * time.Millisecond)

		wc, err := wire.Dial(ctx, ws.Addr(), wire.WithTransport(transport))
		if err != nil {
			t.Fatalf("Dial %s: %v", transport, err)
		}
		client := NewClient(wc)
		t.Cleanup(func() { client.Close() })
		clients[transport] = client
	}
	return clients
}

func TestCallToolEchoOverBothTransports(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := startBothTransports(t, NewServer("mcp-tool-server", Builtins(testSlowDelay)))
	for transport, client := range clients {
		res, err := client.CallTool(ctx, "echo", map[string]interface{}{"text": "hi"})
		if err != nil {
			t.Fatalf("%s: CallTool: %v", transport, err)
		}
		if !res.Success || res.Content != "Echo: hi" {
			t.Errorf("%s: got success=%v content=%q", transport, res.Success, res.Content)
		}
	}
}

func TestCallToolSlowEchoTakesAtLeastDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := startBothTransports(t, NewServer("mcp-tool-server", Builtins(testSlowDelay)))
	for transport, client := range clients {
		start := time.Now()
		res, err := client.CallTool(ctx, "slow_echo", map[string]interface{}{"text": "x"})
		elapsed := time.Since(start)
		if err != nil {
			t.Fatalf("%s: CallTool: %v", transport, err)
		}
		if !res.Success || res.Content != "Slow Echo: x" {
			t.Errorf("%s: got success=%v content=%q", transport, res.Success, res.Content)
		}
		if elapsed < testSlowDelay {
			t.Errorf("%s: call took %v, want >= %v", transport, elapsed, testSlowDelay)
		}
	}
}

func TestCallToolUnknownToolIsFailureResultNotFault(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := startBothTransports(t, NewServer("mcp-tool-server", Builtins(testSlowDelay)))
	for transport, client := range clients {
		res, err := client.CallTool(ctx, "no_such_tool", map[string]interface{}{})
		if err != nil {
			t.Fatalf("%s: unknown tool must not be a transport error, got %v", transport, err)
		}
		if res.Success {
			t.Errorf("%s: expected failure result", transport)
		}
		if !strings.Contains(res.Content, "no_such_tool") {
			t.Errorf("%s: content %q does not name the tool", transport, res.Content)
		}
	}
}

func TestCallToolInvalidArgumentsIsFailureResult(t *testing.T) {
	srv := NewServer("mcp-tool-server", Builtins(testSlowDelay))

	res := srv.CallTool(context.Background(), ToolCall{
		CallID:    "call-1",
		Name:      "echo",
		Arguments: "{not json",
	})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.CallID != "call-1" {
		t.Errorf("callId %q, want call-1", res.CallID)
	}
	if !strings.Contains(res.Content, "invalid JSON arguments") {
		t.Errorf("content %q does not describe the decode failure", res.Content)
	}
}

func TestCallToolInvalidArgumentsOverTransportKeepsConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := NewServer("mcp-tool-server", Builtins(testSlowDelay))
	ws, err := wire.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ws.Close()
	if err := srv.Attach(ws); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	go ws.Serve(ctx)
	time.Sleep(10 * time.Millisecond)

	wc, err := wire.Dial(ctx, ws.Addr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer wc.Close()

	var res ToolResult
	call := ToolCall{CallID: "bad-args", Name: "echo", Arguments: "{{{"}
	if err := wc.Call(ctx, MethodCallTool, call, &res); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Success || res.CallID != "bad-args" {
		t.Errorf("got success=%v callId=%q", res.Success, res.CallID)
	}

	// The connection must still work after the malformed call.
	res2, err := NewClient(wc).CallTool(ctx, "echo", map[string]interface{}{"text": "still alive"})
	if err != nil {
		t.Fatalf("follow-up call failed: %v", err)
	}
	if res2.Content != "Echo: still alive" {
		t.Errorf("follow-up content %q", res2.Content)
	}
}

func TestCallIDCorrelationAcrossManyCalls(t *testing.T) {
	srv := NewServer("mcp-tool-server", Builtins(testSlowDelay))

	for i := 0; i < 200; i++ {
		call := ToolCall{
			CallID:    fmt.Sprintf("rand-%d-%d", i, time.Now().UnixNano()),
			Name:      "echo",
			Arguments: `{"text":"corr"}`,
		}
		res := srv.CallTool(context.Background(), call)
		if res.CallID != call.CallID {
			t.Fatalf("iteration %d: result callId %q != call callId %q", i, res.CallID, call.CallID)
		}
	}
}

func TestListToolsStableOrdering(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := startBothTransports(t, NewServer("mcp-tool-server", Builtins(testSlowDelay)))
	for transport, client := range clients {
		first, err := client.ListTools(ctx)
		if err != nil {
			t.Fatalf("%s: ListTools: %v", transport, err)
		}
		second, err := client.ListTools(ctx)
		if err != nil {
			t.Fatalf("%s: ListTools: %v", transport, err)
		}
		if len(first) != 2 || first[0].Name != "echo" || first[1].Name != "slow_echo" {
			t.Fatalf("%s: unexpected tools %+v", transport, first)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("%s: ordering changed between calls: %+v vs %+v", transport, first, second)
			}
		}
	}
}

func TestPingIdentity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := startBothTransports(t, NewServer("ping-me", NewRegistry()))
	for transport, client := range clients {
		pong, err := client.Ping(ctx)
		if err != nil {
			t.Fatalf("%s: Ping: %v", transport, err)
		}
		if pong != "ping-me" {
			t.Errorf("%s: got %q, want ping-me", transport, pong)
		}
	}
}
