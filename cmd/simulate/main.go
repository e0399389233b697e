package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/auxcord/auxcord/internal/simulate"
	"github.com/auxcord/auxcord/pkg/logger"
)

// Default configuration constants.
const (
	defaultMembers = 8
	defaultShares  = 40
	defaultSpan    = 7 * 24 * time.Hour
	defaultRate    = 200.0
	defaultTimeout = 30 * time.Second
	defaultRunTime = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		groupID = flag.String("group", "sim-group", "Group id to seed")
		members = flag.Int("members", defaultMembers, "Number of synthetic members")
		shares  = flag.Int("shares", defaultShares, "Number of shares to seed")
		span    = flag.Duration("span", defaultSpan, "Time span the shares are spread over")
		rateRPS = flag.Float64("rate", defaultRate, "Event submissions per second, 0 for unlimited")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTime)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL: *baseURL,
		GroupID: *groupID,
		Members: *members,
		Shares:  *shares,
		Span:    *span,
		RateRPS: *rateRPS,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
