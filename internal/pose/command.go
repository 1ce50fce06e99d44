package pose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// CommandSource reads frames from the standard output of an external pose
// estimator, one JSON frame per line. The process is started lazily on the
// first call to Next and is killed when ctx is cancelled.
type CommandSource struct {
	ctx    context.Context
	name   string
	args   []string
	stderr io.Writer

	mu      sync.Mutex
	cmd     *exec.Cmd
	stream  *StreamSource
	started bool
	eof     bool
}

// NewCommandSource creates a CommandSource running name with args.
func NewCommandSource(ctx context.Context, name string, args ...string) *CommandSource {
	return &CommandSource{
		ctx:    ctx,
		name:   name,
		args:   args,
		stderr: os.Stderr,
	}
}

// SetStderr redirects the estimator's standard error. It has no effect once
// the process is running.
func (c *CommandSource) SetStderr(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stderr = w
}

// Next returns the next frame printed by the estimator.
func (c *CommandSource) Next(ctx context.Context) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureStarted(); err != nil {
		return Frame{}, err
	}

	f, err := c.stream.Next(ctx)
	if errors.Is(err, io.EOF) {
		// A killed process also ends its output.
		if ctxErr := c.ctx.Err(); ctxErr != nil {
			return Frame{}, ctxErr
		}
		c.eof = true
	}
	return f, err
}

func (c *CommandSource) ensureStarted() error {
	if c.started {
		return nil
	}

	cmd := exec.CommandContext(c.ctx, c.name, c.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = c.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start estimator %s: %w", c.name, err)
	}

	c.cmd = cmd
	// The pipe is closed by Wait, not by the stream.
	c.stream = NewStreamSource(io.NopCloser(stdout))
	c.started = true
	return nil
}

// Close stops the estimator. After the output was fully consumed it
// reports a non-zero exit status; otherwise the process is killed.
func (c *CommandSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false

	if !c.eof {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
		return nil
	}

	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("estimator %s: %w", c.name, err)
	}
	return nil
}
