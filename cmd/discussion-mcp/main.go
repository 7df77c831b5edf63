// Package main runs the discussion-mcp server: an MCP endpoint offering a
// "think" scratchpad tool and a tool that hands long texts to Gemini.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "discussion-mcp",
		Short: "MCP server for thinking and discussing long texts with Gemini",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/discussion-mcp/config.{yaml,yml,json})")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("discussion-mcp version %s\n", version))

	root.AddCommand(newServeCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newConfigCmd())
	return root
}
