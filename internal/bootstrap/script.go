package bootstrap

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

const (
	shebang          = "#!/bin/bash"
	heredocDelimiter = "EOF"
)

// Step is a named group of shell commands.
type Step struct {
	Name     string
	Commands []string
}

// Script is an ordered list of steps rendered as one bash script.
type Script struct {
	Header []string
	Steps  []Step
}

// Render returns the bash source. Rendering is deterministic.
func (s Script) Render() string {
	var b strings.Builder
	b.WriteString(shebang + "\n")
	b.WriteString("set -euo pipefail\n")
	for _, line := range s.Header {
		b.WriteString(line + "\n")
	}
	for _, step := range s.Steps {
		b.WriteString("\n# " + step.Name + "\n")
		for _, cmd := range step.Commands {
			b.WriteString(cmd + "\n")
		}
	}
	return b.String()
}

// StepNames lists the step names in execution order.
func (s Script) StepNames() []string {
	names := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		names = append(names, step.Name)
	}
	return names
}

// command joins args into one shell command, quoting each argument as needed.
func command(args ...string) string {
	return shellescape.QuoteCommand(args)
}

// escapeHeredoc escapes the characters an unquoted heredoc interprets.
func escapeHeredoc(payload string) string {
	r := strings.NewReplacer(`\`, `\\`, `$`, `\$`, "`", "\\`")
	return r.Replace(payload)
}

// writeFile renders a heredoc that writes payload to path.
func writeFile(path string, payload []byte) (string, error) {
	body := strings.TrimSuffix(string(payload), "\n")
	for i, line := range strings.Split(body, "\n") {
		if line == heredocDelimiter {
			return "", fmt.Errorf("payload for %s: line %d equals heredoc delimiter %q", path, i+1, heredocDelimiter)
		}
	}
	return fmt.Sprintf("cat <<%s > %s\n%s\n%s", heredocDelimiter, shellescape.Quote(path), escapeHeredoc(body), heredocDelimiter), nil
}
