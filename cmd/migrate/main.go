package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/db"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|to|create|lint")
	dir := flag.String("dir", "", "migrations directory (default: files embedded in the binary)")
	name := flag.String("name", "", "migration name for -cmd=create")
	target := flag.String("version", "", "target version for -cmd=to")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	// Offline commands work on files and never touch the database.
	switch *cmd {
	case "create":
		outDir := *dir
		if outDir == "" {
			outDir = migrate.DefaultDir
		}
		path, err := migrate.NewSQLFile(outDir, *name, time.Now())
		exitOn(ctx, logg, "create migration", err)
		fmt.Println("created", path)
		return
	case "lint":
		exitOn(ctx, logg, "lint migrations", migrate.Lint(migrate.Source(*dir)))
		fmt.Println("migrations ok")
		return
	}

	cfg, err := config.Load()
	exitOn(ctx, logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	client, err := db.New(ctx, cfg.DB, db.DialectFor(cfg.FeatureFlags), logg)
	exitOn(ctx, logg, "connect database", err)
	defer client.Close()

	steps, err := run(ctx, client, *cmd, *dir, *target)
	exitOn(ctx, logg, *cmd, err)
	for _, step := range steps {
		fmt.Printf("%-14d %-10s %s\n", step.Version, step.State, step.Path)
	}
}

func run(ctx context.Context, client *db.Client, cmd, dir, target string) ([]migrate.Step, error) {
	if client.Dialect() == db.DialectSQLite {
		if cmd != "up" {
			return nil, fmt.Errorf("sqlite only supports -cmd=up")
		}
		return migrate.Apply(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return nil, err
	}
	runner, err := migrate.NewRunner(sqlDB, client.Dialect(), migrate.Source(dir))
	if err != nil {
		return nil, err
	}

	switch cmd {
	case "up":
		return runner.Up(ctx)
	case "down":
		return runner.Down(ctx)
	case "status":
		return runner.Status(ctx)
	case "to":
		version, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("-version must be a migration version: %w", err)
		}
		return runner.To(ctx, version)
	default:
		return nil, fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, action string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, action+" failed", err)
	os.Exit(1)
}
