package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/config"
	"github.com/bugie-app/bugie-backend/pkg/db"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"github.com/bugie-app/bugie-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bugie-migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|to|create|validate")
	dir := flag.String("dir", "", "migrations directory (empty uses the embedded set)")
	name := flag.String("name", "", "migration name for -cmd=create")
	target := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=to")
	flag.Parse()

	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	// file-only commands run without config or a database
	switch *cmd {
	case "create":
		outDir := *dir
		if outDir == "" {
			outDir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(outDir, *name, time.Now())
		exitOn(ctx, logg, "create migration", err)
		fmt.Println("created", path)
		return
	case "validate":
		fsys, err := migrate.Source(*dir)
		exitOn(ctx, logg, "migrations source", err)
		versions, err := migrate.Validate(fsys)
		exitOn(ctx, logg, "validate migrations", err)
		fmt.Printf("%d migrations valid\n", len(versions))
		return
	}

	cfg, err := config.Load()
	exitOn(ctx, logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "bugie-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	dbClient, err := db.Open(ctx, cfg, logg)
	exitOn(ctx, logg, "database", err)
	defer dbClient.Close()

	// the SQL files target Postgres; a local SQLite file is built from the models
	if dbClient.Dialect() == db.DialectSQLite {
		if *cmd != "up" {
			exitOn(ctx, logg, "sqlite", fmt.Errorf("-cmd=%s is not supported for sqlite, only up", *cmd))
		}
		exitOn(ctx, logg, "sqlite schema", migrate.AutoMigrate(ctx, dbClient, logg))
		return
	}

	sqlDB, err := dbClient.SQL()
	exitOn(ctx, logg, "sql handle", err)
	fsys, err := migrate.Source(*dir)
	exitOn(ctx, logg, "migrations source", err)
	runner, err := migrate.NewRunner(sqlDB, fsys, logg)
	exitOn(ctx, logg, "migration runner", err)

	switch *cmd {
	case "up":
		err = runner.Up(ctx)
	case "down":
		err = runner.Down(ctx)
	case "status":
		err = runner.Status(ctx)
	case "to":
		var version int64
		version, err = strconv.ParseInt(*target, 10, 64)
		if err != nil {
			err = fmt.Errorf("invalid -version %q: %w", *target, err)
			break
		}
		err = runner.To(ctx, version)
	default:
		err = fmt.Errorf("unknown -cmd %q", *cmd)
	}
	exitOn(ctx, logg, "migrate "+*cmd, err)
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step+" failed", err)
	os.Exit(1)
}
