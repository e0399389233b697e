package simulate

import "os"

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Auxcord Reaction Simulator
==========================

Seeds a synthetic group and replays realistic reaction traffic against a
running auxcord server.

Usage:
  go run ./cmd/simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -group string
        Group id to seed (default "sim-group")
  -members int
        Number of synthetic members (default 8)
  -shares int
        Number of shares to seed (default 40)
  -span duration
        Time span the shares are spread over (default 168h)
  -rate float
        Event submissions per second, 0 for unlimited (default 200)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate a week of activity for the default group
  go run ./cmd/simulate

  # A month of traffic for a bigger group, throttled
  go run ./cmd/simulate -group demo -members 12 -shares 200 -span 720h -rate 50
`)
}
