package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewdunne/samwise/internal/config"
	"github.com/drewdunne/samwise/internal/logging"
	"github.com/drewdunne/samwise/internal/notify"
	"github.com/drewdunne/samwise/internal/registry"
	"github.com/drewdunne/samwise/internal/report"
	"github.com/drewdunne/samwise/internal/store"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "send":
		runSend(os.Args[2:])
	case "preview":
		runPreview(os.Args[2:])
	case "version":
		fmt.Printf("grind v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: grind <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  send [login email]  Mail the daily digest to everyone, or to one person")
	fmt.Println("  preview [login]     Print the digest HTML instead of mailing it")
	fmt.Println("  version             Print version information")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

type app struct {
	store    *store.Redis
	reporter *report.Reporter
}

func setup(ctx context.Context, configPath, envFile string, mail bool) *app {
	if err := config.LoadEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}
	if mail {
		if err := cfg.ValidateMail(); err != nil {
			fatal("invalid configuration", err)
		}
	}

	src := registry.New(cfg).Get(cfg.Tracker.Provider)
	if src == nil {
		fatal("issue source not configured", fmt.Errorf("provider %q", cfg.Tracker.Provider))
	}

	st, err := store.Connect(ctx, cfg.Store.RedisURL, cfg.Store.KeyPrefix)
	if err != nil {
		fatal("store unreachable", err)
	}

	renderer, err := report.NewRenderer(report.Links{
		WebURL: cfg.Tracker.WebURL,
		Owner:  cfg.Tracker.Owner,
		Repo:   cfg.Tracker.Repo,
	})
	if err != nil {
		fatal("loading templates", err)
	}

	mailer := notify.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.From,
		notify.WithBaseURL(cfg.Mailgun.BaseURL))

	return &app{
		store: st,
		reporter: report.NewReporter(src, st, mailer, renderer, report.Options{
			Owner:   cfg.Tracker.Owner,
			Repo:    cfg.Tracker.Repo,
			Subject: cfg.Report.Subject,
			Window:  cfg.ReportWindow(),
		}),
	}
}

func runSend(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	var only *store.Person
	switch fs.NArg() {
	case 0:
	case 2:
		only = &store.Person{Login: fs.Arg(0), Email: fs.Arg(1)}
	default:
		fmt.Println("Usage: grind send [options] [login email]")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := setup(ctx, *configPath, *envFile, true)
	defer a.store.Close()

	if only != nil {
		slog.InfoContext(ctx, "reporting for one person", "login", only.Login, "email", only.Email)
	}
	if err := a.reporter.Send(ctx, only); err != nil {
		a.store.Close()
		fatal("sending digest failed", err)
	}
}

func runPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	ctx := context.Background()
	a := setup(ctx, *configPath, *envFile, false)
	defer a.store.Close()

	if err := a.reporter.Preview(ctx, os.Stdout, fs.Arg(0)); err != nil {
		a.store.Close()
		fatal("rendering digest failed", err)
	}
}
