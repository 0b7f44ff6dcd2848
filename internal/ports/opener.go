package ports

import "os/exec"

// FileOpener opens a registered source file in an external program
type FileOpener interface {
	// OpenFile opens the file with the platform's default handler
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening the file.
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
