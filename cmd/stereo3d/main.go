package main

import (
	"errors"
	"fmt"
	"os"

	"stereo3d/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(pipeline.ExitFailed)
	}
}

// exitError carries a process exit status out of a command whose outcome
// has already been reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
