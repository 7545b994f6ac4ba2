// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package github talks to the GitHub REST API on behalf of the mediation
// server. It covers exactly the three issue operations the benchmark
// exercises; everything else about the API is out of scope.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/probelab/mcpwire/mcp"
)

// maxPerPage is GitHub's documented per_page ceiling.
const maxPerPage = 100

// APIError is a non-success response from GitHub. It is never swallowed:
// the mediation server fails the RPC call that triggered it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: status %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against one repository.
type Client struct {
	repoURL string
	token   string
	hc      *http.Client
}

// NewClient builds a client for cfg.Repo. A nil httpClient gets a default
// with a 10s timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		repoURL: cfg.BaseURL + "/repos/" + cfg.Repo,
		token:   cfg.Token,
		hc:      httpClient,
	}
}

// apiIssue is the subset of GitHub's issue object the schema carries.
type apiIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (i apiIssue) toIssue() mcp.Issue {
	return mcp.Issue{
		Number:    i.Number,
		Title:     i.Title,
		Body:      i.Body,
		State:     i.State,
		URL:       i.HTMLURL,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// CreateIssue opens a new issue. GitHub answers 201 on success; anything
// else is an *APIError.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (*mcp.Issue, error) {
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, c.repoURL+"/issues", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp)
	}

	var out apiIssue
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode issue: %w", err)
	}
	issue := out.toIssue()
	return &issue, nil
}

// ListIssues fetches issues filtered by state. limit is clamped to
// GitHub's per_page maximum; zero values fall back to open/30.
func (c *Client) ListIssues(ctx context.Context, state string, limit int) ([]mcp.Issue, error) {
	if state == "" {
		state = "open"
	}
	if limit <= 0 {
		limit = 30
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}

	q := url.Values{}
	q.Set("state", state)
	q.Set("per_page", strconv.Itoa(limit))

	resp, err := c.do(ctx, http.MethodGet, c.repoURL+"/issues?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out []apiIssue
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	issues := make([]mcp.Issue, 0, len(out))
	for _, i := range out {
		issues = append(issues, i.toIssue())
	}
	return issues, nil
}

// GetIssue fetches one issue by number. 404 and every other non-200 come
// back as an *APIError.
func (c *Client) GetIssue(ctx context.Context, number int) (*mcp.Issue, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/issues/%d", c.repoURL, number), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out apiIssue
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode issue: %w", err)
	}
	issue := out.toIssue()
	return &issue, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.hc.Do(req)
}

func apiError(resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &APIError{StatusCode: resp.StatusCode, Body: string(detail)}
}
