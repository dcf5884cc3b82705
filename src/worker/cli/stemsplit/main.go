package main

import (
	"fmt"
	"os"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// a separation binary failing is the caller's strongest signal, so
		// its exit code passes through untouched
		if code, ok := executor.ExitCode(err); ok {
			os.Exit(code)
		}

		os.Exit(1)
	}
}
