// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func stubConfig(srv *httptest.Server) Config {
	return Config{Token: "test-token", Repo: "probelab/sandbox", BaseURL: srv.URL}
}

func issueJSON(number int, title string) map[string]interface{} {
	return map[string]interface{}{
		"number":     number,
		"title":      title,
		"body":       "b",
		"state":      "open",
		"html_url":   "https://github.com/probelab/sandbox/issues/1",
		"created_at": "2026-08-30T10:00:00Z",
		"updated_at": "2026-08-30T10:00:00Z",
	}
}

func TestCreateIssue(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/probelab/sandbox/issues", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello", body["title"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(issueJSON(7, body["title"]))
	}))
	defer srv.Close()

	c := NewClient(stubConfig(srv), srv.Client())
	issue, err := c.CreateIssue(context.Background(), "hello", "world")
	require.NoError(t, err)
	require.Equal(t, 7, issue.Number)
	require.Equal(t, "hello", issue.Title)
	require.Equal(t, "token test-token", gotAuth)
}

func TestCreateIssueNon201IsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(stubConfig(srv), srv.Client())
	_, err := c.CreateIssue(context.Background(), "t", "b")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Contains(t, apiErr.Body, "Validation Failed")
}

func TestListIssuesClampsPerPage(t *testing.T) {
	var gotPerPage, gotState string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		gotState = r.URL.Query().Get("state")
		json.NewEncoder(w).Encode([]map[string]interface{}{issueJSON(1, "a"), issueJSON(2, "b")})
	}))
	defer srv.Close()

	c := NewClient(stubConfig(srv), srv.Client())
	issues, err := c.ListIssues(context.Background(), "closed", 500)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	require.Equal(t, "100", gotPerPage, "per_page must be clamped to GitHub's maximum")
	require.Equal(t, "closed", gotState)
}

func TestListIssuesDefaults(t *testing.T) {
	var gotPerPage, gotState string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		gotState = r.URL.Query().Get("state")
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer srv.Close()

	c := NewClient(stubConfig(srv), srv.Client())
	_, err := c.ListIssues(context.Background(), "", 0)
	require.NoError(t, err)
	require.Equal(t, "30", gotPerPage)
	require.Equal(t, "open", gotState)
}

func TestGetIssue404IsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(stubConfig(srv), srv.Client())
	_, err := c.GetIssue(context.Background(), 999)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPO", "")
	_, err := ConfigFromEnv()
	require.Error(t, err, "missing credentials must fail at startup")

	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("GITHUB_REPO", "probelab/sandbox")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, "tok", cfg.Token)
	require.Equal(t, "probelab/sandbox", cfg.Repo)
	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
}
