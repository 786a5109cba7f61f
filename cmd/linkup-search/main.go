package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/young1lin/agent-web-search/internal/cli"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.RunLinkup(ctx, os.Args[1:], cli.DefaultRuntime(Version, BuildDate))
	stop()
	os.Exit(code)
}
