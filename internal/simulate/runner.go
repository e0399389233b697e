package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/auxcord/auxcord/pkg/logger"
)

// Run seeds the group and replays the generated reaction traffic.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("simulate")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC().Truncate(time.Second)

	stats := &Stats{StartTime: now}
	defer func() { stats.Duration = time.Since(stats.StartTime) }()

	members := generateMembers(cfg.Members)
	shares := generateShares(rng, members, cfg.Shares, cfg.Span, now)
	events := generateEvents(rng, cfg.GroupID, members, shares, now)
	stats.SharesSeeded = len(shares)
	stats.EventsGenerated = len(events)

	log.Info(ctx, "seeding group",
		logger.String("groupID", cfg.GroupID),
		logger.Int("members", len(members)),
		logger.Int("shares", len(shares)),
		logger.Int("events", len(events)),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout, cfg.RateRPS)
	if err := seedGroup(ctx, c, cfg, members, shares); err != nil {
		return stats, err
	}

	for _, e := range events {
		result, err := c.submitEvent(ctx, e)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.EventsFailed++
			if cfg.Verbose {
				log.Warn(ctx, "event submission failed",
					logger.String("eventID", e.EventID), logger.Error(err))
			}
			continue
		}
		switch result {
		case "accepted":
			stats.EventsAccepted++
		case "duplicate":
			stats.EventsDuplicate++
		default:
			stats.EventsFailed++
		}
	}

	log.Info(ctx, "simulation complete",
		logger.Int("accepted", stats.EventsAccepted),
		logger.Int("duplicate", stats.EventsDuplicate),
		logger.Int("failed", stats.EventsFailed),
		logger.Duration("took", time.Since(stats.StartTime)),
	)
	return stats, nil
}

func seedGroup(ctx context.Context, c *client, cfg *Config, members []member, shares []share) error {
	payload := map[string]any{
		"groupId": cfg.GroupID,
		"name":    "simulated group " + cfg.GroupID,
		"members": members,
		"shares":  shares,
	}
	status, err := c.postJSON(ctx, "/groups", payload, nil)
	if err != nil {
		return fmt.Errorf("seed group: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("seed group: unexpected status %d", status)
	}
	return nil
}
