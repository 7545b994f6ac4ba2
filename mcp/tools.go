// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"fmt"
	"time"
)

// DefaultSlowEchoDelay is the pause built into slow_echo. The harness uses
// it to confirm that measured latencies reflect real server-side work.
const DefaultSlowEchoDelay = 100 * time.Millisecond

const textArgSchema = `{"type":"object","properties":{"text":{"type":"string"}}}`

// Builtins returns a registry holding the echo and slow_echo tools.
// slowDelay <= 0 falls back to DefaultSlowEchoDelay.
func Builtins(slowDelay time.Duration) *Registry {
	if slowDelay <= 0 {
		slowDelay = DefaultSlowEchoDelay
	}

	reg := NewRegistry()
	// Registration cannot fail on a fresh registry with distinct names.
	_ = reg.Register(ToolDescriptor{
		Name:        "echo",
		Description: "Echo back the input text",
		InputSchema: textArgSchema,
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		return "Echo: " + textArg(args), nil
	})
	_ = reg.Register(ToolDescriptor{
		Name:        "slow_echo",
		Description: fmt.Sprintf("Echo with %s delay (for testing)", slowDelay),
		InputSchema: textArgSchema,
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(slowDelay):
		}
		return "Slow Echo: " + textArg(args), nil
	})
	return reg
}

func textArg(args map[string]interface{}) string {
	text, _ := args["text"].(string)
	return text
}
