package main

import (
	"context"
	"flag"
	"os"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/migration"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"
)

func main() {
	var (
		dir   = flag.String("dir", "migrations", "Directory holding *.up.sql and *.down.sql files")
		down  = flag.Bool("down", false, "Revert instead of apply")
		steps = flag.Int("steps", 0, "Number of migrations to apply or revert (0 applies all)")
	)
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.App.LoggerOptions()...)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	client, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_questdb"})
		os.Exit(1)
	}
	defer client.Close()

	runner := migration.NewRunner(client, log, *dir)
	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "ensure_migration_table"})
		os.Exit(1)
	}

	if *down {
		err = runner.MigrateDown(ctx, *steps)
	} else {
		err = runner.MigrateUp(ctx, *steps)
	}
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate"})
		os.Exit(1)
	}

	log.Info("Migrations completed successfully")
}
