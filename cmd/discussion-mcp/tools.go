package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/logging"
)

type toolListing struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog as served by tools/list",
		RunE:  runTools,
	}
	cmd.Flags().StringP("format", "f", "json", "Output format: json, yaml")
	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The catalog is only listed, so no client factory is needed.
	registry, err := createRegistry(Dependencies{Config: cfg, Logger: logging.Discard()})
	if err != nil {
		return exitError(exitRuntime, "building catalog: %v", err)
	}

	listing := make([]toolListing, 0)
	for _, def := range registry.Definitions() {
		listing = append(listing, toolListing{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	return writeFormatted(cmd.OutOrStdout(), format, map[string]any{"tools": listing})
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (the API key is never printed)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), format, redacted(cfg))
		},
	}
	cmd.Flags().StringP("format", "f", "yaml", "Output format: json, yaml")
	return cmd
}

// redacted reports whether the key is set without exposing it.
func redacted(cfg *config.Config) map[string]any {
	return map[string]any{
		"config":         cfg,
		"api_key_is_set": cfg.Gemini.APIKey != "",
	}
}

// writeFormatted writes v as indented JSON or as block-style YAML. YAML is
// produced from the JSON encoding so key order and json tags carry over.
func writeFormatted(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return err
		}
		clearStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	default:
		return exitError(exitConfig, "unknown format %q (want json or yaml)", format)
	}
}

// clearStyle drops the flow and quoting styles inherited from JSON.
func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
