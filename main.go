// pattern: Imperative Shell
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitfinder/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(version).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
