// Package hooks runs user-supplied shell commands around a case execution.
// Plans declare them per entry; the runner invokes the before hooks ahead
// of the browser session and the after hooks once results are in.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Env is the combo context exported to hook processes.
type Env struct {
	CaseID      string
	Browser     string
	Language    string
	Environment string
	BaseURL     string
	Status      string // set for after hooks
}

func (e Env) vars() []string {
	return []string{
		"AVQA_CASE=" + e.CaseID,
		"AVQA_BROWSER=" + e.Browser,
		"AVQA_LANGUAGE=" + e.Language,
		"AVQA_ENV=" + e.Environment,
		"AVQA_BASE_URL=" + e.BaseURL,
		"AVQA_STATUS=" + e.Status,
	}
}

// Run executes one hook command line through the shell, with the combo
// context in the environment. Stdout and stderr pass through.
func Run(ctx context.Context, command string, env Env) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(), env.vars()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hook %q: %w", command, err)
	}
	return nil
}

// RunAll executes the commands in order and stops at the first failure.
func RunAll(ctx context.Context, commands []string, env Env) error {
	for _, c := range commands {
		if err := Run(ctx, c, env); err != nil {
			return err
		}
	}
	return nil
}
