package rclone

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

// Runner executes an external program and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger.LogCommand(CommandLine(name, args...))

	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if out := strings.TrimSpace(output.String()); out != "" {
		logger.Log("rclone output: %s", out)
	}
	if err != nil {
		return output.Bytes(), fmt.Errorf("%s failed: %w", name, err)
	}
	return output.Bytes(), nil
}

// CommandLine renders a shell-quoted command line with secrets redacted.
func CommandLine(name string, args ...string) string {
	redacted := make([]string, 0, len(args)+1)
	redacted = append(redacted, name)
	for _, arg := range args {
		if strings.HasPrefix(arg, "pass=") {
			arg = "pass=[REDACTED]"
		}
		redacted = append(redacted, arg)
	}
	return shellquote.Join(redacted...)
}

// ParseFlags splits a shell-quoted flag string such as `--max-delete 50 --filter "- *.tmp"`.
func ParseFlags(flags string) ([]string, error) {
	if strings.TrimSpace(flags) == "" {
		return nil, nil
	}
	words, err := shellquote.Split(flags)
	if err != nil {
		return nil, fmt.Errorf("invalid rclone flags %q: %w", flags, err)
	}
	return words, nil
}
