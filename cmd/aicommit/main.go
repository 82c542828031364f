package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/shiyuanpei/aicommit/internal/cli"
	"github.com/shiyuanpei/aicommit/internal/pipeline"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}
	// Cancellation is a clean outcome: distinct exit code, no message.
	if !errors.Is(err, pipeline.ErrCancelled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(pipeline.ExitCode(err))
}
