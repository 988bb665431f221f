package main

import (
	"context"
	"flag"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/migrations"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/migration"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
)

func main() {
	steps := flag.Int("steps", 0, "number of pending migrations to apply, 0 applies all")
	flag.Parse()

	ctx := context.Background()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "load_config"})
		return
	}

	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "init_questdb"})
		return
	}
	defer client.Close()

	applied, err := migration.NewRunner(client, migrations.Files, log).MigrateUp(ctx, *steps)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate_up"}, logger.Field{Key: "applied", Value: applied})
		return
	}

	log.Info("Migrations completed successfully", logger.Field{Key: "applied", Value: applied})
}
