package taskwarrior

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type TaskwarriorClient struct {
	bin string
}

func NewTaskwarriorClient(bin string) *TaskwarriorClient {
	if bin == "" {
		bin = "task"
	}
	return &TaskwarriorClient{bin: bin}
}

// Someday runs `task calc someday` and returns the first line of its output.
func (c *TaskwarriorClient) Someday(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, "calc", "someday")

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("taskwarrior command failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("taskwarrior command failed: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	if !scanner.Scan() {
		return "", fmt.Errorf("taskwarrior calc someday: empty output")
	}
	someday := strings.TrimRight(scanner.Text(), "\r")
	if strings.TrimSpace(someday) == "" {
		return "", fmt.Errorf("taskwarrior calc someday: empty first line")
	}
	return someday, nil
}
