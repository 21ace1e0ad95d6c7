// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gitscan/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := cli.Run(ctx, args, stdout, stderr, version); err != nil {
		fmt.Fprintf(stderr, "gitscan error: %v\n", err)
		return 1
	}
	return 0
}
