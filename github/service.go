// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/probelab/mcpwire/mcp"
)

// NewService builds the mediation server: the three issue operations as
// direct methods (issues/create, issues/list, issues/get) and as tools
// reachable through tools/call. Both routes hit the same client, so the
// two transports exercise identical GitHub round trips.
func NewService(client *Client, repo string) *mcp.Server {
	reg := mcp.NewRegistry()

	mustRegister(reg, mcp.ToolDescriptor{
		Name:        "create_github_issue",
		Description: "Create a new GitHub issue",
		InputSchema: `{"type":"object","properties":{"title":{"type":"string"},"body":{"type":"string"}},"required":["title"]}`,
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		title, _ := args["title"].(string)
		body, _ := args["body"].(string)
		issue, err := client.CreateIssue(ctx, title, body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created issue #%d: %s", issue.Number, issue.Title), nil
	})

	mustRegister(reg, mcp.ToolDescriptor{
		Name:        "list_github_issues",
		Description: "List GitHub issues",
		InputSchema: `{"type":"object","properties":{"state":{"type":"string"}}}`,
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		state, _ := args["state"].(string)
		issues, err := client.ListIssues(ctx, state, 0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Found %d issues", len(issues)), nil
	})

	mustRegister(reg, mcp.ToolDescriptor{
		Name:        "get_github_issue",
		Description: "Get a specific GitHub issue",
		InputSchema: `{"type":"object","properties":{"issue_number":{"type":"number"}},"required":["issue_number"]}`,
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		number, _ := args["issue_number"].(float64)
		issue, err := client.GetIssue(ctx, int(number))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Issue #%d: %s", issue.Number, issue.Title), nil
	})

	srv := mcp.NewServer("GitHub MCP Server - "+repo, reg)

	srv.Handle(mcp.MethodCreateIssue, func(ctx context.Context, payload []byte) ([]byte, error) {
		var p mcp.CreateIssueParams
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("malformed params: %w", err)
		}
		log.Printf("[GITHUB] creating issue: %q", p.Title)
		issue, err := client.CreateIssue(ctx, p.Title, p.Body)
		if err != nil {
			return nil, err
		}
		return json.Marshal(issue)
	})

	srv.Handle(mcp.MethodListIssues, func(ctx context.Context, payload []byte) ([]byte, error) {
		var p mcp.ListIssuesParams
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("malformed params: %w", err)
		}
		issues, err := client.ListIssues(ctx, p.State, p.Limit)
		if err != nil {
			return nil, err
		}
		return json.Marshal(mcp.IssueList{Issues: issues})
	})

	srv.Handle(mcp.MethodGetIssue, func(ctx context.Context, payload []byte) ([]byte, error) {
		var p mcp.GetIssueParams
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("malformed params: %w", err)
		}
		issue, err := client.GetIssue(ctx, p.Number)
		if err != nil {
			return nil, err
		}
		return json.Marshal(issue)
	})

	return srv
}

func mustRegister(reg *mcp.Registry, desc mcp.ToolDescriptor, h mcp.Handler) {
	if err := reg.Register(desc, h); err != nil {
		panic(err) // distinct literal names cannot collide
	}
}
