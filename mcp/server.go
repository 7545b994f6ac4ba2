// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/probelab/mcpwire/wire"
)

// Server is the transport-independent domain logic: it owns a tool
// registry and a set of extra domain methods, and can attach them to any
// wire.Server. The same Server instance attached to a frame listener and
// an HTTP listener behaves identically on both.
type Server struct {
	identity string
	registry *Registry
	extra    map[string]wire.RawHandler
	order    []string
}

// NewServer creates a server that answers ping with identity and serves
// the given tool registry.
func NewServer(identity string, registry *Registry) *Server {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Server{
		identity: identity,
		registry: registry,
		extra:    make(map[string]wire.RawHandler),
	}
}

// Handle binds an extra domain method (beyond the tools/* surface) that
// will be registered on attach.
func (s *Server) Handle(method string, handler wire.RawHandler) {
	if _, dup := s.extra[method]; !dup {
		s.order = append(s.order, method)
	}
	s.extra[method] = handler
}

// Attach registers every method on the wire server. Must be called before
// the wire server starts serving.
func (s *Server) Attach(ws wire.Server) error {
	handlers := map[string]wire.RawHandler{
		MethodListTools: s.handleListTools,
		MethodCallTool:  s.handleCallTool,
		MethodPing:      s.handlePing,
	}
	for _, method := range []string{MethodListTools, MethodCallTool, MethodPing} {
		if err := ws.RegisterRaw(method, handlers[method]); err != nil {
			return err
		}
	}
	for _, method := range s.order {
		if err := ws.RegisterRaw(method, s.extra[method]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleListTools(ctx context.Context, _ []byte) ([]byte, error) {
	return json.Marshal(ToolList{Tools: s.registry.Descriptors()})
}

func (s *Server) handlePing(ctx context.Context, _ []byte) ([]byte, error) {
	return json.Marshal(s.identity)
}

func (s *Server) handleCallTool(ctx context.Context, payload []byte) ([]byte, error) {
	var call ToolCall
	if err := json.Unmarshal(payload, &call); err != nil {
		return nil, fmt.Errorf("malformed tool call: %w", err)
	}
	return json.Marshal(s.CallTool(ctx, call))
}

// CallTool executes one tool call. Decode failures, unknown tools, and
// handler errors all come back as a failed ToolResult carrying the
// original callId; they never become transport faults.
func (s *Server) CallTool(ctx context.Context, call ToolCall) ToolResult {
	var args map[string]interface{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return ToolResult{
				CallID:  call.CallID,
				Content: fmt.Sprintf("Error: invalid JSON arguments: %v", err),
			}
		}
	}

	handler, ok := s.registry.lookup(call.Name)
	if !ok {
		return ToolResult{
			CallID:  call.CallID,
			Content: fmt.Sprintf("Error: unknown tool: %s", call.Name),
		}
	}

	content, err := handler(ctx, args)
	if err != nil {
		log.Printf("[MCP] tool %s failed: %v", call.Name, err)
		return ToolResult{
			CallID:  call.CallID,
			Content: fmt.Sprintf("Error: %v", err),
		}
	}
	return ToolResult{CallID: call.CallID, Success: true, Content: content}
}
