package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docgen/internal/builder"
	"git.home.luguber.info/inful/docgen/internal/cargo"
	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/paths"
	"git.home.luguber.info/inful/docgen/internal/publish"
	"git.home.luguber.info/inful/docgen/internal/version"
	"git.home.luguber.info/inful/docgen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docgen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct{} `cmd:"" help:"Build documentation for all configured crates and publish it"`

	Publish struct{} `cmd:"" help:"Assemble the publish directory from an existing cargo doc build"`

	Verify struct{} `cmd:"" help:"Check the publish directory: version-prefixed titles, no empty files"`

	Watch struct{} `cmd:"" help:"Rebuild and republish whenever doc sources change"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Execute command
	switch ctx.Command() {
	case "build":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if err := runBuild(context.Background(), cfg); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "publish":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if err := runPublish(context.Background(), cfg); err != nil {
			slog.Error("Publish failed", logfields.Error(err))
			os.Exit(1)
		}
	case "verify":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if err := runVerify(cfg); err != nil {
			slog.Error("Verification failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("Configuration created", logfields.Path(CLI.Config))
	case "version":
		fmt.Printf("docgen %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		return nil, err
	}
	return cfg, nil
}

// runBuild executes the full linear pipeline: build and patch every crate's
// documentation, then publish once.
func runBuild(ctx context.Context, cfg *config.Config) error {
	resolver := paths.NewResolver(cfg.DocHome, cfg.Dest)
	runner := &cargo.Runner{}

	b := builder.New(cfg, resolver, runner)
	versions, err := b.BuildAll(ctx)
	if err != nil {
		return err
	}

	return publish.New(cfg, resolver, b.RunID()).Publish(ctx, versions)
}

// runPublish assembles the publish directory from an existing target/doc
// tree, resolving the crate versions for the build stamp.
func runPublish(ctx context.Context, cfg *config.Config) error {
	resolver := paths.NewResolver(cfg.DocHome, cfg.Dest)
	runner := &cargo.Runner{}

	versions := make(map[string]string, len(cfg.Crates))
	for _, crate := range cfg.Crates {
		v, err := runner.Pkgid(ctx, resolver.ManifestPath(crate.Subdir))
		if err != nil {
			return err
		}
		versions[crate.Name] = v
	}

	return publish.New(cfg, resolver, uuid.NewString()).Publish(ctx, versions)
}

func runVerify(cfg *config.Config) error {
	resolver := paths.NewResolver(cfg.DocHome, cfg.Dest)
	issues, err := publish.Verify(cfg, resolver)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		slog.Error("Publish invariant violated", logfields.Path(issue.Path), slog.String("detail", issue.Detail))
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d publish invariant violations", len(issues))
	}
	slog.Info("Publish directory verified", logfields.Dest(resolver.DestDir()))
	return nil
}

// runWatch performs an initial full build, then rebuilds on changes until
// interrupted.
func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runBuild(ctx, cfg); err != nil {
		return err
	}

	resolver := paths.NewResolver(cfg.DocHome, cfg.Dest)
	dirs := []string{resolver.DocHome(), resolver.ImageDir()}
	for _, crate := range cfg.Crates {
		crateDir := filepath.Join(resolver.Home(), crate.Subdir)
		dirs = append(dirs, crateDir, filepath.Join(crateDir, "src"))
	}

	w, err := watch.NewWatcher(dirs, func(ctx context.Context) error {
		return runBuild(ctx, cfg)
	})
	if err != nil {
		return err
	}

	slog.Info("Watching for source changes, press Ctrl-C to stop")
	return w.Run(ctx)
}
