package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/stockdigest/config"
	"github.com/spacesedan/stockdigest/internal/logging"
	"github.com/spacesedan/stockdigest/internal/pipeline"
)

func main() {
	mode := flag.String("mode", "daily", "run mode: daily, weekly, or monthly")
	dryRun := flag.Bool("dry-run", false, "skip email and sheet write, save previews instead")
	noEmail := flag.Bool("no-email", false, "skip the email send only")
	noSheet := flag.Bool("no-sheet", false, "skip the sheet write only")
	verbose := flag.Bool("verbose", false, "detailed fetch and filter logs")
	daysBack := flag.Int("days-back", 0, "override the news window in days")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(*verbose)

	settings, err := config.Load()
	if err != nil {
		slog.Error("[Main] invalid settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	feeds, err := config.LoadFeeds(settings.FeedsFile)
	if err != nil {
		slog.Error("[Main] could not load feeds config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(settings, feeds, pipeline.Options{
		DryRun:   *dryRun,
		NoEmail:  *noEmail,
		NoSheet:  *noSheet,
		DaysBack: *daysBack,
	})

	switch *mode {
	case "daily":
		err = p.RunDaily(ctx)
	case "weekly":
		err = p.RunWeekly(ctx)
	case "monthly":
		err = p.RunMonthly(ctx)
	default:
		slog.Error("[Main] unknown mode", slog.String("mode", *mode))
		os.Exit(2)
	}

	if err != nil {
		slog.Error("[Main] pipeline failed",
			slog.String("mode", *mode),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
