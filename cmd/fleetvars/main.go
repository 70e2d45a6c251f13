// Package main is the entry point for the fleetvars CLI tool.
package main

import (
	"context"
	"os"
	"runtime/debug"

	"fleetvars/internal/cli"
	"fleetvars/internal/output"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			w := output.NewStandardWriter()
			w.Errorf("panic: %v\n%s", r, debug.Stack())
			code = cli.ExitFatal
		}
	}()

	return cli.Execute(context.Background())
}
