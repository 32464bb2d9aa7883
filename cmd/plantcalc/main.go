// plantcalc computes plant damage and fusion results from the command line.
//
// Usage:
//
//	plantcalc damage -plant Cactus -variant Gold -kg 5 -level 3
//	plantcalc fuse -plant Cactus -a Gold -b Wrapped -kg-a 5 -kg-b 7.5 -level 2
//	plantcalc variants -plant Cactus
//	plantcalc plants
//	plantcalc mutations
//	plantcalc mcp
//	plantcalc migrate
//	plantcalc import-plants [-file plants.json]
//
// Every command accepts -config (default config/plantcalc.yaml, or $PLANTCALC_CONFIG).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/udisondev/plantcalc/internal/app"
	"github.com/udisondev/plantcalc/internal/config"
	"github.com/udisondev/plantcalc/internal/damage"
	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/db"
	"github.com/udisondev/plantcalc/internal/engine"
	"github.com/udisondev/plantcalc/internal/mcptools"
)

const ConfigPath = "config/plantcalc.yaml"

var version = "dev"

// errUsage marks bad command lines; the flag package has already printed why.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, errorLine(err))
		}
		os.Exit(1)
	}
}

// errorLine prefers the short user-facing message for calculator errors.
func errorLine(err error) string {
	if kind := engine.Kind(err); kind != "internal" {
		return engine.UserMessage(err)
	}
	return "error: " + err.Error()
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, env *cmdEnv, args []string) error
}

// cmdEnv is what every command gets: parsed config and output streams.
type cmdEnv struct {
	cfg    config.Calculator
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{"damage", "damage lookup for a plant variant", runDamage},
	{"fuse", "fuse two plants and compute the result's damage", runFuse},
	{"variants", "list the damage variants of a plant", runVariants},
	{"plants", "list known plants", runPlants},
	{"mutations", "list the mutations usable as fuse inputs", runMutations},
	{"mcp", "serve the calculator as MCP tools", runMCP},
	{"migrate", "apply database migrations", runMigrate},
	{"import-plants", "load a plant index JSON into PostgreSQL", runImportPlants},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("plantcalc", flag.ContinueOnError)
	global.SetOutput(stderr)
	cfgPath := global.String("config", defaultConfigPath(), "config file")
	global.Usage = func() {
		fmt.Fprintf(stderr, "usage: plantcalc [-config path] <command> [flags]\n\ncommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-14s %s\n", c.name, c.usage)
		}
	}
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	cfg, err := config.LoadCalculator(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout carries reports and the MCP stdio stream, so logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	name := global.Arg(0)
	for _, c := range commands {
		if c.name == name {
			return c.run(ctx, &cmdEnv{cfg: cfg, stdout: stdout, stderr: stderr}, global.Args()[1:])
		}
	}
	fmt.Fprintf(stderr, "unknown command %q\n", name)
	global.Usage()
	return errUsage
}

func defaultConfigPath() string {
	if p := os.Getenv("PLANTCALC_CONFIG"); p != "" {
		return p
	}
	return ConfigPath
}

func (e *cmdEnv) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (e *cmdEnv) build(ctx context.Context) (*app.App, error) {
	return app.Build(ctx, e.cfg, nil)
}

func runDamage(ctx context.Context, env *cmdEnv, args []string) error {
	fs := env.flags("damage")
	plant := fs.String("plant", "", "plant name")
	variant := fs.String("variant", "Base", "variant key (formula mode) or label (table mode)")
	kgStr := fs.String("kg", "", "plant weight in kg")
	levelStr := fs.String("level", "1", "plant level, 1-10")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Engine.Plant(*plant); err != nil {
		return err
	}
	kg, err := engine.ParseNumber(engine.FieldKg, *kgStr)
	if err != nil {
		return err
	}
	level, err := engine.ParseNumber(engine.FieldLevel, *levelStr)
	if err != nil {
		return err
	}

	res, err := a.Engine.Damage(ctx, engine.DamageRequest{
		Plant:   *plant,
		Variant: *variant,
		Kg:      kg,
		Level:   level,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, engine.DamageReport(res))
	return nil
}

func runFuse(ctx context.Context, env *cmdEnv, args []string) error {
	fs := env.flags("fuse")
	plant := fs.String("plant", "", "plant name")
	mutA := fs.String("a", "", "first mutation")
	mutB := fs.String("b", "", "second mutation")
	kgAStr := fs.String("kg-a", "", "weight of the first plant")
	kgBStr := fs.String("kg-b", "", "weight of the second plant")
	levelStr := fs.String("level", "1", "level of the fused plant")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Engine.Plant(*plant); err != nil {
		return err
	}
	kgA, err := engine.ParseNumber(engine.FieldKgA, *kgAStr)
	if err != nil {
		return err
	}
	kgB, err := engine.ParseNumber(engine.FieldKgB, *kgBStr)
	if err != nil {
		return err
	}

	res, err := a.Engine.Fuse(ctx, engine.FuseRequest{
		Plant:     *plant,
		MutationA: *mutA,
		MutationB: *mutB,
		KgA:       kgA,
		KgB:       kgB,
		Level:     engine.ParseFuseLevel(*levelStr),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, engine.FuseReport(res))
	return nil
}

func runVariants(ctx context.Context, env *cmdEnv, args []string) error {
	fs := env.flags("variants")
	plant := fs.String("plant", "", "plant name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	vs, err := a.Engine.Variants(*plant)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL")
	for _, v := range vs {
		fmt.Fprintf(tw, "%s\t%s\n", v.Key, v.Label)
	}
	return tw.Flush()
}

func runPlants(ctx context.Context, env *cmdEnv, args []string) error {
	if err := env.flags("plants").Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLANT\tBASE\tCD")
	for _, p := range a.Engine.Plants() {
		cd := "-"
		if p.HasCD() {
			cd = damage.FormatNumber(p.CD) + "s"
		}
		base := "-"
		if p.Base > 0 {
			base = damage.FormatNumber(p.Base)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, base, cd)
	}
	return tw.Flush()
}

func runMutations(ctx context.Context, env *cmdEnv, args []string) error {
	if err := env.flags("mutations").Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MUTATION\tGROUP")
	for _, m := range a.Engine.FuseInputs() {
		fmt.Fprintf(tw, "%s\t%s\n", m.Label(), m.Group)
	}
	return tw.Flush()
}

func runMCP(ctx context.Context, env *cmdEnv, args []string) error {
	fs := env.flags("mcp")
	transport := fs.String("transport", env.cfg.MCP.Transport, "stdio or http")
	addr := fs.String("addr", env.cfg.MCP.Address, "listen address for the http transport")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a, err := env.build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcptools.NewServer(a.Engine, version)
	return mcptools.Run(ctx, server, config.MCPConfig{Transport: *transport, Address: *addr})
}

func runMigrate(ctx context.Context, env *cmdEnv, args []string) error {
	if err := env.flags("migrate").Parse(args); err != nil {
		return errUsage
	}
	version, err := db.RunMigrations(ctx, env.cfg.Database.DSN())
	if err != nil {
		return err
	}
	slog.Info("database migrations applied", "version", version)
	fmt.Fprintf(env.stdout, "schema version %d\n", version)
	return nil
}

func runImportPlants(ctx context.Context, env *cmdEnv, args []string) error {
	fs := env.flags("import-plants")
	file := fs.String("file", "", "plant index JSON (default: built-in index)")
	migrate := fs.Bool("migrate", true, "apply migrations first")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	src := data.EmbeddedSource()
	if *file != "" {
		src = data.JSONSource{
			Fetcher: data.DirFetcher{FS: os.DirFS(filepath.Dir(*file))},
			Name:    filepath.Base(*file),
		}
	}
	plants, err := src.LoadPlants(ctx)
	if err != nil {
		return err
	}

	dsn := env.cfg.Database.DSN()
	if *migrate {
		if _, err := db.RunMigrations(ctx, dsn); err != nil {
			return err
		}
	}
	database, err := db.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.UpsertPlants(ctx, plants); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "imported %d plants\n", len(plants))
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
