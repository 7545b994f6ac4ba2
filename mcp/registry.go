// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"fmt"
	"sync"
)

// Handler executes one tool call and returns the human-readable content of
// the result. A non-nil error becomes a failed ToolResult, never a
// transport fault.
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Registry maps tool names to descriptors and handlers. It is passed
// explicitly to server constructors so instances stay independently
// testable; there is no process-wide registry.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]registeredTool
}

type registeredTool struct {
	desc    ToolDescriptor
	handler Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool when its name is not in use.
func (r *Registry) Register(desc ToolDescriptor, handler Handler) error {
	if desc.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %s has no handler", desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[desc.Name]; exists {
		return fmt.Errorf("tool %s already registered", desc.Name)
	}
	r.tools[desc.Name] = registeredTool{desc: desc, handler: handler}
	r.order = append(r.order, desc.Name)
	return nil
}

// Descriptors returns the advertised tools in registration order. The
// order is stable across calls.
func (r *Registry) Descriptors() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].desc)
	}
	return out
}

func (r *Registry) lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t.handler, ok
}
