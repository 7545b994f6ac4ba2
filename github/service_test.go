// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/probelab/mcpwire/mcp"
	"github.com/probelab/mcpwire/wire"
)

// startService serves a mediation server backed by a stubbed collaborator
// over the frame transport and returns a typed client.
func startService(t *testing.T, collaborator http.HandlerFunc) *mcp.Client {
	t.Helper()

	stub := httptest.NewServer(collaborator)
	t.Cleanup(stub.Close)

	svc := NewService(NewClient(Config{Token: "t", Repo: "probelab/sandbox", BaseURL: stub.URL}, stub.Client()), "probelab/sandbox")

	ws, err := wire.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	if err := svc.Attach(ws); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	go ws.Serve(context.Background())
	time.Sleep(10 * time.Millisecond)

	wc, err := wire.Dial(context.Background(), ws.Addr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	client := mcp.NewClient(wc)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIssueMethodsRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := startService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(issueJSON(11, "benchmark issue"))
		case strings.HasSuffix(r.URL.Path, "/issues/11"):
			json.NewEncoder(w).Encode(issueJSON(11, "benchmark issue"))
		default:
			json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(11, "benchmark issue")})
		}
	})

	created, err := client.CreateIssue(ctx, "benchmark issue", "body")
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if created.Number != 11 {
		t.Errorf("number %d, want 11", created.Number)
	}

	issues, err := client.ListIssues(ctx, "open", 30)
	if err != nil {
		t.Fatalf("ListIssues: %v", err)
	}
	if len(issues) != 1 || issues[0].Title != "benchmark issue" {
		t.Errorf("unexpected issues: %+v", issues)
	}

	got, err := client.GetIssue(ctx, 11)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got.State != "open" {
		t.Errorf("state %q, want open", got.State)
	}
}

// A collaborator failure must fail the RPC call, not vanish.
func TestCollaborator404FailsTheCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := startService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.GetIssue(ctx, 999)
	if err == nil {
		t.Fatal("expected error for 404 collaborator response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not carry the collaborator status", err)
	}
}

func TestIssueToolsThroughToolsCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := startService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		json.NewEncoder(w).Encode(issueJSON(3, "via tool"))
	})

	tools, err := client.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make([]string, len(tools))
	for i, d := range tools {
		names[i] = d.Name
	}
	want := []string{"create_github_issue", "list_github_issues", "get_github_issue"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools %v, want %v", names, want)
		}
	}

	res, err := client.CallTool(ctx, "create_github_issue", map[string]interface{}{"title": "via tool"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.Success || res.Content != "Created issue #3: via tool" {
		t.Errorf("got success=%v content=%q", res.Success, res.Content)
	}

	res, err = client.CallTool(ctx, "get_github_issue", map[string]interface{}{"issue_number": 3})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.Success || res.Content != "Issue #3: via tool" {
		t.Errorf("got success=%v content=%q", res.Success, res.Content)
	}
}
