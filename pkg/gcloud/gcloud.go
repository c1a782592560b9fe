package gcloud

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
)

// CLI invokes the gcloud binary. Operations ask for machine readable output
// and decode it into typed records.
type CLI struct {
	// Project overrides the configured gcloud default project when set.
	Project string
}

// NewCLI verifies the gcloud binary is reachable before any operation runs.
func NewCLI(project string) (*CLI, error) {
	if _, err := exec.LookPath("gcloud"); err != nil {
		return nil, fmt.Errorf("gcloud executable not found in PATH: %v", err)
	}

	return &CLI{Project: project}, nil
}

// run executes gcloud with the given arguments, capturing stdout. A non-zero
// exit comes back with the tool's stderr attached.
func (c *CLI) run(ctx context.Context, extraEnv []string, args ...string) ([]byte, error) {
	pterm.Debug.Printfln("gcloud %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "gcloud", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gcloud %s: %s: %w", args[0], msg, err)
		}
		return nil, fmt.Errorf("gcloud %s: %w", args[0], err)
	}

	return stdout.Bytes(), nil
}
