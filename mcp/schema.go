// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mcp defines the protocol message schema and the
// transport-independent server and client for the mcpwire tool-invocation
// surface: tool discovery, tool invocation, liveness, and the GitHub issue
// methods. The same logical messages travel over every wire transport.
package mcp

// ToolDescriptor advertises one invocable tool. Descriptors are built at
// server start and never change afterwards.
type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema string `json:"inputSchema"`
}

// ToolCall is one invocation request. CallID is chosen by the caller and
// exists only for client-side correlation; the transports multiplex on
// their own identifiers.
type ToolCall struct {
	CallID    string `json:"callId"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult is the terminal outcome of a ToolCall. CallID always echoes
// the originating call, including for failures.
type ToolResult struct {
	CallID  string `json:"callId"`
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// Issue is the protocol-level view of a GitHub issue. The number is
// assigned by GitHub; nothing here is mutated locally.
type Issue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToolList wraps the tools/list response.
type ToolList struct {
	Tools []ToolDescriptor `json:"tools"`
}

// IssueList wraps the issues/list response.
type IssueList struct {
	Issues []Issue `json:"issues"`
}

// CreateIssueParams are the issues/create arguments.
type CreateIssueParams struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListIssuesParams are the issues/list arguments.
type ListIssuesParams struct {
	State string `json:"state"`
	Limit int    `json:"limit"`
}

// GetIssueParams are the issues/get arguments.
type GetIssueParams struct {
	Number int `json:"number"`
}

// Method names served identically over every transport.
const (
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
	MethodPing        = "ping"
	MethodCreateIssue = "issues/create"
	MethodListIssues  = "issues/list"
	MethodGetIssue    = "issues/get"
)
