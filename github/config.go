// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package github

import (
	"fmt"
	"os"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Config holds the required credentials for the mediation server. Both
// Token and Repo must be present before any serving begins.
type Config struct {
	Token   string
	Repo    string // "owner/name"
	BaseURL string
}

// ConfigFromEnv reads GITHUB_TOKEN and GITHUB_REPO. A missing value is a
// startup error, not something to discover on the first call.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Token:   os.Getenv("GITHUB_TOKEN"),
		Repo:    os.Getenv("GITHUB_REPO"),
		BaseURL: DefaultBaseURL,
	}
	if cfg.Token == "" || cfg.Repo == "" {
		return Config{}, fmt.Errorf("GITHUB_TOKEN and GITHUB_REPO environment variables are required")
	}
	return cfg, nil
}
