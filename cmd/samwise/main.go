package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewdunne/samwise/internal/config"
	"github.com/drewdunne/samwise/internal/logging"
	"github.com/drewdunne/samwise/internal/provider"
	"github.com/drewdunne/samwise/internal/registry"
	"github.com/drewdunne/samwise/internal/server"
	"github.com/drewdunne/samwise/internal/store"
	"github.com/drewdunne/samwise/internal/syncer"
	"golang.org/x/sync/errgroup"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runSync(os.Args[2:], true)
	case "once":
		runSync(os.Args[2:], false)
	case "check":
		runCheck(os.Args[2:])
	case "people":
		runPeople(os.Args[2:])
	case "version":
		fmt.Printf("samwise v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: samwise <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run                         Poll the tracker and remark on issue changes")
	fmt.Println("  once                        Run a single sync pass and exit")
	fmt.Println("  check                       Verify stored label history replays to current labels")
	fmt.Println("  people add <login> <email>  Register a digest recipient")
	fmt.Println("  version                     Print version information")
}

// flags registers the options every command shares.
func flags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	return fs, configPath, envFile
}

func loadConfig(configPath, envFile string) *config.Config {
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
	return cfg
}

func connectStore(ctx context.Context, cfg *config.Config) *store.Redis {
	st, err := store.Connect(ctx, cfg.Store.RedisURL, cfg.Store.KeyPrefix)
	if err != nil {
		fatal("store unreachable", err)
	}
	return st
}

func issueSource(cfg *config.Config) provider.IssueSource {
	src := registry.New(cfg).Get(cfg.Tracker.Provider)
	if src == nil {
		fatal("issue source not configured", fmt.Errorf("provider %q", cfg.Tracker.Provider))
	}
	return src
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func runSync(args []string, loop bool) {
	fs, configPath, envFile := flags("run")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *envFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := connectStore(ctx, cfg)
	defer st.Close()

	s := syncer.New(issueSource(cfg), st, syncer.Options{
		Owner:               cfg.Tracker.Owner,
		Repo:                cfg.Tracker.Repo,
		Interval:            cfg.PollInterval(),
		Location:            cfg.Location(),
		IncludePullRequests: cfg.Sync.IncludePullRequests,
	})

	if !loop {
		if err := s.Update(ctx); err != nil {
			fatal("sync pass failed", err)
		}
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(ctx) })
	if cfg.Server.Port != 0 {
		srv := server.New(cfg.Server, st)
		g.Go(func() error { return srv.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fatal("samwise stopped", err)
	}
}

func runCheck(args []string) {
	fs, configPath, envFile := flags("check")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *envFile)
	ctx := context.Background()

	st := connectStore(ctx, cfg)
	defer st.Close()

	drifts, err := syncer.CheckHistory(ctx, st)
	if err != nil {
		fatal("check failed", err)
	}
	for _, d := range drifts {
		fmt.Printf("#%d: labels %v, history replays to %v\n", d.Number, d.Labels, d.Replayed)
	}
	if len(drifts) > 0 {
		st.Close()
		os.Exit(1)
	}
	fmt.Println("All label histories reconcile.")
}

func runPeople(args []string) {
	if len(args) < 1 || args[0] != "add" {
		fmt.Println("Usage: samwise people add [options] <login> <email>")
		os.Exit(1)
	}

	fs, configPath, envFile := flags("people add")
	fs.Parse(args[1:])
	if fs.NArg() != 2 {
		fmt.Println("Usage: samwise people add [options] <login> <email>")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath, *envFile)
	ctx := context.Background()

	st := connectStore(ctx, cfg)
	defer st.Close()

	p := store.Person{Login: fs.Arg(0), Email: fs.Arg(1)}
	if err := st.AddPerson(ctx, p); err != nil {
		fatal("adding person failed", err)
	}
	fmt.Printf("Added %s <%s>\n", p.Login, p.Email)
}
