// Package opener hands a bookmark target to the operating system's default
// URL handler.
package opener

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

// Opener opens a target such as a URL.
type Opener interface {
	Open(target string) error
}

// Func adapts an ordinary function to Opener.
type Func func(target string) error

// Open calls f(target).
func (f Func) Open(target string) error {
	return f(target)
}

// DefaultCommand returns the URL opener for the running OS.
func DefaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// ParseCommand splits a configured opener command line on whitespace.
// An empty line selects DefaultCommand.
func ParseCommand(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return DefaultCommand()
	}
	return fields
}

// Exec replaces the current process with the opener command. When Open
// succeeds it does not return; any error it returns comes straight from the
// OS.
type Exec struct {
	Command []string // nil = DefaultCommand()
}

// Open execs the opener with target as its last argument.
func (e Exec) Open(target string) error {
	argv := append(commandOrDefault(e.Command), target)

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}

	// Windows has no exec(2); start the handler and let the caller exit.
	if runtime.GOOS == "windows" {
		return exec.Command(path, argv[1:]...).Start()
	}

	return syscall.Exec(path, argv, os.Environ())
}

// Start runs the opener as a child process and returns once it has started.
// Used by interactive hosts that must restore the terminal before exiting.
type Start struct {
	Command []string // nil = DefaultCommand()
}

// Open starts the opener with target as its last argument.
func (s Start) Open(target string) error {
	argv := append(commandOrDefault(s.Command), target)

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func commandOrDefault(command []string) []string {
	if len(command) == 0 {
		command = DefaultCommand()
	}
	// copy so appending the target never touches the caller's slice
	return append([]string(nil), command...)
}
