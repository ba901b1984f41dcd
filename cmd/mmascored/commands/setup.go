package commands

import (
	"context"
	"log/slog"
	"os"

	"mmascorecard-backend/lib/configutil"
	"mmascorecard-backend/lib/configutil/sqldb"
	"mmascorecard-backend/lib/fetchcache"
	"mmascorecard-backend/lib/serviceutil"
	"mmascorecard-backend/lib/telemetry"
	"mmascorecard-backend/lib/webcache"
	"mmascorecard-backend/services/fightdb"
	"mmascorecard-backend/services/fightdb/pipeline"
)

type Config struct {
	Database  sqldb.Struct `json:"database"`
	CacheFile string       `json:"cache_file"`
	BaseUrl   string       `json:"base_url"`
	// concurrent prefetches during warming, <2 disables it
	Workers int `json:"workers"`
}

func readConfig() Config {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.BaseUrl == "" {
		config.BaseUrl = "https://www.sherdog.com"
	}
	if config.CacheFile == "" {
		config.CacheFile = "webcache.json"
	}
	return config
}

func openStore(ctx context.Context, config Config) fightdb.Store {
	database, err := config.Database.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	store := fightdb.NewStore(database)
	err = store.EnsureSchema(ctx)
	if err != nil {
		serviceutil.Fatal("failed to bootstrap schema", err)
	}
	return store
}

func newPipeline(ctx context.Context, config Config, store fightdb.Store, cache webcache.Cache) *pipeline.Pipeline {
	telemetry.InstrumentPerfStats(ctx)

	p, err := pipeline.New(pipeline.Options{
		BaseURL:  config.BaseUrl,
		Store:    store,
		Fetcher:  fetchcache.NewClient(cache),
		Logger:   slog.Default(),
		Progress: os.Stderr,
		Workers:  config.Workers,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize pipeline", err)
	}
	return p
}
