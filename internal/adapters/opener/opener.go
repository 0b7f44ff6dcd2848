package opener

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener implements ports.FileOpener with the platform's default handler
type Opener struct {
	goos    string
	handler string
}

// Option configures the Opener
type Option func(*Opener)

// WithHandler overrides the program used to open files
func WithHandler(program string) Option {
	return func(o *Opener) {
		o.handler = program
	}
}

// NewOpener creates a new file opener
func NewOpener(opts ...Option) *Opener {
	o := &Opener{goos: runtime.GOOS}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OpenFile opens a file and waits for the handler to return
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	var cmd *exec.Cmd
	switch {
	case o.handler != "":
		cmd = exec.Command(o.handler, path)
	case o.goos == "darwin":
		cmd = exec.Command("open", path)
	case o.goos == "linux", o.goos == "freebsd", o.goos == "openbsd":
		cmd = exec.Command("xdg-open", path)
	case o.goos == "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}
