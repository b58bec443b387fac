package config

import (
	"fmt"
	"io"
	"os"
)

// Exit codes used by the command-line tools.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	defaultStderr io.Writer = os.Stderr
	defaultExit             = os.Exit

	stderr = defaultStderr
	exit   = defaultExit
)

// Exitf prints the message to stderr and exits with code.
func Exitf(code int, format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(code)
}
