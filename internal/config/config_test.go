package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/auxcord/auxcord/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"AUXCORD_CONFIG", "AUXCORD_ADDR", "AUXCORD_DB_PATH", "AUXCORD_QUEUE_SIZE",
		"AUXCORD_WORKER_COUNT", "AUXCORD_DEDUPE_SIZE", "AUXCORD_MIN_RADAR_SAMPLES",
		"AUXCORD_LOG_LEVEL", "AUXCORD_INGEST_RATE_RPS",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DBPath, convey.ShouldEqual, "auxcord.db")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.MinRadarSamples, convey.ShouldEqual, 3)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("AUXCORD_ADDR", ":9090")
			_ = os.Setenv("AUXCORD_DB_PATH", ":memory:")
			_ = os.Setenv("AUXCORD_QUEUE_SIZE", "2048")
			_ = os.Setenv("AUXCORD_WORKER_COUNT", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DBPath, convey.ShouldEqual, ":memory:")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			yamlContent := "addr: \":7070\"\nqueue_size: 512\nmin_radar_samples: 5\n"
			tmpFile := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(tmpFile, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("AUXCORD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 512)
				convey.So(cfg.MinRadarSamples, convey.ShouldEqual, 5)
			})

			convey.Convey("And env vars should beat the file", func() {
				_ = os.Setenv("AUXCORD_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the file path is wrong", func() {
			_ = os.Setenv("AUXCORD_CONFIG", "/does/not/exist.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail with the load sentinel", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
