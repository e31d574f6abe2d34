package claudecli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// mcpServerEntry is one server in the CLI's --mcp-config file.
type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

type mcpConfig struct {
	MCPServers map[string]mcpServerEntry `json:"mcpServers"`
}

// SetupTools writes an MCP config file registering the given server
// command and passes it to every CLI invocation until CleanupTools. The
// CLI launches the server itself and executes its tools natively.
func (p *Provider) SetupTools(ctx context.Context, name string, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("claudecli: empty tool server command for %q", name)
	}

	cfg := mcpConfig{MCPServers: map[string]mcpServerEntry{
		name: {Command: command[0], Args: command[1:]},
	}}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("claudecli: marshal mcp config: %w", err)
	}

	f, err := os.CreateTemp("", "chainact-mcp-*.json")
	if err != nil {
		return fmt.Errorf("claudecli: create mcp config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("claudecli: write mcp config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("claudecli: close mcp config: %w", err)
	}

	p.mcpServerName = name
	p.mcpConfigPath = f.Name()
	p.logger.Info("registered MCP tool server", "name", name, "config", p.mcpConfigPath)
	return nil
}

// CleanupTools removes the MCP config written by SetupTools. Safe to
// call when no server is registered.
func (p *Provider) CleanupTools(ctx context.Context) error {
	if p.mcpConfigPath == "" {
		return nil
	}
	path := p.mcpConfigPath
	p.mcpConfigPath = ""
	p.mcpServerName = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("claudecli: remove mcp config: %w", err)
	}
	return nil
}
