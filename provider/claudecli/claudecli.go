package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	ca "github.com/spetersoncode/chainact"
	"github.com/spetersoncode/chainact/provider"
)

// DefaultModel is the model alias passed to the CLI when none is set.
const DefaultModel = "haiku"

// systemPrompt frames every session. Per-turn guidance arrives in the
// prompt body, not here, so the session prompt stays stable across the
// whole run.
const systemPrompt = "You are a task-solving agent with soft action guidance. " +
	"At each step you receive recommendations about action types and a JSON schema.\n" +
	"You MUST respond with ONLY a valid JSON object matching the provided schema.\n" +
	"No markdown, no code fences, no explanation outside the JSON.\n" +
	"You self-classify your action type. Recommendations are suggestions, not constraints."

// Provider drives the Claude CLI as a subprocess.
//
// One session spans all calls of a run: the first call creates it with a
// fresh session ID, subsequent calls resume it and send only the
// conversation delta since the previous call. The CLI executes MCP tools
// natively, so the provider implements the tool-channel capability and
// reports observed tool calls back on each response.
type Provider struct {
	model   string
	command string
	logger  *slog.Logger

	sessionID      string
	msgsAtLastCall int

	mcpServerName string
	mcpConfigPath string
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel sets the model alias or full model name.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithCommand overrides the CLI executable path. Default is "claude".
func WithCommand(command string) Option {
	return func(p *Provider) {
		p.command = command
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// New creates a Claude CLI provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		model:   DefaultModel,
		command: "claude",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// ResetSession clears the session so the next call starts a fresh
// conversation.
func (p *Provider) ResetSession() {
	p.sessionID = ""
	p.msgsAtLastCall = 0
}

// Call runs one CLI invocation inside the persistent session and parses
// its stream-json output. A CLI that exits non-zero or emits garbage
// yields a response with nil Fields; only a process that cannot be
// started at all returns an error.
func (p *Provider) Call(ctx context.Context, messages []ca.Message, instructions string, schema json.RawMessage) (*provider.Response, error) {
	statePrompt := buildStatePrompt(instructions, schema)

	var args []string
	var prompt string
	if p.sessionID == "" {
		p.sessionID = uuid.New().String()
		prompt = firstUserContent(messages) + "\n\n---\n\n" + statePrompt
		args = []string{
			"--print",
			"--model", p.model,
			"--session-id", p.sessionID,
			"--output-format", "stream-json",
			"--verbose",
			"--system-prompt", systemPrompt,
			"--dangerously-skip-permissions",
		}
	} else {
		if delta := p.userDelta(messages); len(delta) > 0 {
			prompt = strings.Join(delta, "\n\n") + "\n\n---\n\n" + statePrompt
		} else {
			prompt = statePrompt
		}
		args = []string{
			"--print",
			"--resume", p.sessionID,
			"--output-format", "stream-json",
			"--verbose",
			"--dangerously-skip-permissions",
		}
	}
	if p.mcpConfigPath != "" {
		args = append(args, "--mcp-config", p.mcpConfigPath)
	}
	args = append(args, prompt)
	p.msgsAtLastCall = len(messages)

	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Env = cleanEnv()
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		p.logger.Error("claude CLI failed",
			"code", exitErr.ExitCode(),
			"stderr", truncate(stderr.String(), 500),
		)
	}

	events := parseStreamEvents(stdout.String())
	resultText := extractResultText(events)
	costUSD, durationMS := extractUsage(events)

	return &provider.Response{
		Fields:      parseJSONResponse(resultText),
		Usage:       ca.TokenUsage{CostUSD: costUSD, DurationMS: durationMS},
		Invocations: extractToolCalls(events),
		Raw:         resultText,
		SessionID:   p.sessionID,
	}, nil
}

// userDelta returns the user-message contents added since the last call.
// The session holds everything older server-side.
func (p *Provider) userDelta(messages []ca.Message) []string {
	start := p.msgsAtLastCall
	if start > len(messages) {
		start = len(messages)
	}
	var parts []string
	for _, m := range messages[start:] {
		if m.Role == ca.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return parts
}

func firstUserContent(messages []ca.Message) string {
	for _, m := range messages {
		if m.Role == ca.RoleUser {
			return m.Content
		}
	}
	return ""
}

// cleanEnv strips CLAUDECODE so a CLI launched from inside another CLI
// session does not refuse to start.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "CLAUDECODE=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
