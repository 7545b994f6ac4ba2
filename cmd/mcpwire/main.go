// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Command mcpwire serves the tool and GitHub-mediation servers over either
// transport and runs the latency comparison between them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mcpwire",
	Short:         "Dual-transport MCP servers and latency comparison harness",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
