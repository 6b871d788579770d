package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/geocine/sitepatch/internal/cli"
	"github.com/geocine/sitepatch/internal/config"
	"github.com/geocine/sitepatch/internal/favicon"
	"github.com/geocine/sitepatch/internal/inspect"
	"github.com/geocine/sitepatch/internal/logger"
	"github.com/geocine/sitepatch/internal/models"
	"github.com/geocine/sitepatch/internal/navigation"
	"github.com/geocine/sitepatch/internal/report"
)

// errFailures signals that the run finished but some pages were rejected
var errFailures = errors.New("some pages could not be processed")

// patchFlags are shared by the favicon and nav subcommands
type patchFlags struct {
	config  *string
	dir     *string
	dryRun  *bool
	verbose *bool
}

func newPatchFlags(fs *flag.FlagSet) patchFlags {
	return patchFlags{
		config:  fs.String("config", config.DefaultFile, "Path to the config file"),
		dir:     fs.String("dir", "", "Site directory (overrides site.dir)"),
		dryRun:  fs.Bool("dry-run", false, "Show a diff instead of writing files"),
		verbose: fs.Bool("verbose", false, "Enable verbose output"),
	}
}

func main() {
	faviconCmd := flag.NewFlagSet("favicon", flag.ExitOnError)
	faviconFlags := newPatchFlags(faviconCmd)

	navCmd := flag.NewFlagSet("nav", flag.ExitOnError)
	navFlags := newPatchFlags(navCmd)

	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	checkConfig := checkCmd.String("config", config.DefaultFile, "Path to the config file")
	checkDir := checkCmd.String("dir", "", "Site directory (overrides site.dir)")

	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	initSiteDir := initCmd.String("site-dir", "", "Site directory written to the config")
	initTitle := initCmd.String("title", "", "Site title written to the config")
	initYes := initCmd.Bool("yes", false, "Skip interactive prompts and use provided/default values")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger.Setup(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "favicon":
		faviconCmd.Parse(os.Args[2:])
		err = handleFavicon(ctx, faviconFlags)

	case "nav":
		navCmd.Parse(os.Args[2:])
		err = handleNav(ctx, navFlags)

	case "check":
		checkCmd.Parse(os.Args[2:])
		err = handleCheck(ctx, *checkConfig, *checkDir)

	case "init":
		initCmd.Parse(os.Args[2:])
		err = handleInit(initCmd, *initSiteDir, *initTitle, *initYes)

	case "help", "-h", "--help":
		usage()

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	exitOnError(err)
}

func usage() {
	fmt.Println("Usage: sitepatch [command]")
	fmt.Println("Commands:")
	fmt.Println("  favicon    Add the favicon link to every page")
	fmt.Println("  nav        Replace the site header with the pill navigation")
	fmt.Println("  check      Report pages that are not fully patched")
	fmt.Println("  init       Write a starter sitepatch.toml")
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, errFailures) {
		slog.Error("sitepatch failed", "error", err)
	}
	os.Exit(1)
}

// loadConfig reads the config file, falling back to defaults when it is absent.
func loadConfig(path, dirOverride string) (*config.Config, error) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		slog.Warn("could not load config file, using defaults", "path", path)
		cfg = config.NewDefaultConfig()
		cfg.UpdateFromEnv()
	}
	if dirOverride != "" {
		cfg.Site.Dir = dirOverride
	}
	return cfg, nil
}

func setVerbose(v bool) {
	if v {
		logger.Setup(os.Stderr, slog.LevelDebug)
	}
}

func handleFavicon(ctx context.Context, f patchFlags) error {
	setVerbose(*f.verbose)
	cfg, err := loadConfig(*f.config, *f.dir)
	if err != nil {
		return err
	}

	fmt.Printf("Adding favicon to pages in %s\n", cfg.Site.Dir)
	p := favicon.NewPatcher(cfg)
	p.SetDryRun(*f.dryRun)

	results, runErr := p.Run(ctx)
	return finish("favicon", results, runErr, f)
}

func handleNav(ctx context.Context, f patchFlags) error {
	setVerbose(*f.verbose)
	cfg, err := loadConfig(*f.config, *f.dir)
	if err != nil {
		return err
	}

	b, err := navigation.NewBuilder(cfg, embeddedFrontend)
	if err != nil {
		return err
	}

	fmt.Printf("Updating navigation in %s\n", cfg.Site.Dir)
	rw := navigation.NewRewriter(cfg, b)
	rw.SetDryRun(*f.dryRun)

	results, runErr := rw.Run(ctx)
	return finish("navigation", results, runErr, f)
}

// finish prints whatever results were gathered, then reports the run error or
// page failures.
func finish(action string, results []models.Result, runErr error, f patchFlags) error {
	printer := report.NewPrinter(os.Stdout)
	printer.Verbose = *f.verbose
	printer.Diff = *f.dryRun
	if err := printer.Results(action, results); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if models.Summarize(results).HasFailures() {
		return errFailures
	}
	if *f.dryRun {
		fmt.Println("Dry run: no files were written.")
	}
	return nil
}

func handleCheck(ctx context.Context, configPath, dir string) error {
	cfg, err := loadConfig(configPath, dir)
	if err != nil {
		return err
	}

	reports, err := inspect.NewChecker(cfg).Run(ctx)
	if err != nil {
		return err
	}
	bad, err := report.NewPrinter(os.Stdout).Checks(reports)
	if err != nil {
		return err
	}
	if bad > 0 {
		return errFailures
	}
	return nil
}

func handleInit(initCmd *flag.FlagSet, siteDir, title string, yes bool) error {
	opts := cli.InitOptions{
		Root:    ".",
		SiteDir: siteDir,
		Title:   title,
	}
	if initCmd.NArg() >= 1 {
		opts.Root = initCmd.Arg(0)
	}

	if !yes {
		cli.FillInitOptionsInteractive(os.Stdin, os.Stdout, &opts)
	}

	path, err := cli.Init(opts)
	if err != nil {
		return err
	}

	fmt.Printf("\nWrote %s\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  sitepatch favicon -dry-run   # preview favicon links")
	fmt.Println("  sitepatch nav -dry-run       # preview the navigation rewrite")
	fmt.Println("  sitepatch check              # verify the pages")
	return nil
}
