// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/probelab/mcpwire/wire"
)

// Client is the typed view of the protocol over any wire.Client. It owns
// the underlying connection: Close closes it.
type Client struct {
	wc wire.Client
}

// NewClient wraps an already-dialed wire client.
func NewClient(wc wire.Client) *Client {
	return &Client{wc: wc}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.wc.Close()
}

// ListTools fetches the server's advertised tools.
func (c *Client) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	var out ToolList
	if err := c.wc.Call(ctx, MethodListTools, nil, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// CallTool invokes a tool with a generated callId and verifies the result
// correlates back to it.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*ToolResult, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	call := ToolCall{
		CallID:    uuid.NewString(),
		Name:      name,
		Arguments: string(encoded),
	}

	var result ToolResult
	if err := c.wc.Call(ctx, MethodCallTool, call, &result); err != nil {
		return nil, err
	}
	if result.CallID != call.CallID {
		return nil, fmt.Errorf("call id mismatch: sent %s, got %s", call.CallID, result.CallID)
	}
	return &result, nil
}

// Ping returns the server's identifying string.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var pong string
	if err := c.wc.Call(ctx, MethodPing, nil, &pong); err != nil {
		return "", err
	}
	return pong, nil
}

// CreateIssue creates a GitHub issue through the mediation server.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (*Issue, error) {
	var issue Issue
	err := c.wc.Call(ctx, MethodCreateIssue, CreateIssueParams{Title: title, Body: body}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues lists issues with the given state, at most limit of them.
func (c *Client) ListIssues(ctx context.Context, state string, limit int) ([]Issue, error) {
	var out IssueList
	err := c.wc.Call(ctx, MethodListIssues, ListIssuesParams{State: state, Limit: limit}, &out)
	if err != nil {
		return nil, err
	}
	return out.Issues, nil
}

// GetIssue fetches one issue by number.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	var issue Issue
	if err := c.wc.Call(ctx, MethodGetIssue, GetIssueParams{Number: number}, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
