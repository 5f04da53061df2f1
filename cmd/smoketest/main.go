package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/ringside/internal/smoke"
	"github.com/okian/ringside/pkg/logger"
)

const runTimeout = 2 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", smoke.DefaultBaseURL, "Base URL of the service")
		timeout = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every check as it passes")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
