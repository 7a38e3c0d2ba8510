package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/config"
	"github.com/umputun/perspectives/pkg/pipeline"
	"github.com/umputun/perspectives/pkg/scheduler"
	"github.com/umputun/perspectives/server"
)

// Opts with all CLI options
type Opts struct {
	Config    string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults used if empty"`
	OpenAIKey string `long:"openai-key" env:"OPENAI_API_KEY" description:"OpenAI API key, overrides config"`
	ClaudeKey string `long:"claude-key" env:"CLAUDE_API_KEY" description:"Claude API key, overrides config"`

	Fetch    struct{} `command:"fetch" description:"fetch one new article per source"`
	Classify struct{} `command:"classify" description:"classify pending articles and move them to their category"`
	Dedup    struct{} `command:"dedup" description:"remove duplicate articles across categories"`
	Cleanup  struct{} `command:"cleanup" description:"remove expired articles"`
	Run      struct{} `command:"run" description:"run all stages: fetch, classify, dedup, cleanup"`
	Serve    struct {
		Every   time.Duration `long:"every" env:"EVERY" description:"run all stages periodically while serving, disabled if 0"`
		BaseURL string        `long:"base-url" env:"BASE_URL" default:"http://localhost:8080" description:"base url for links in rss"`
	} `command:"serve" description:"serve read API"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`

	Command string `no-flag:"true"` // active subcommand, set after parsing
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	opts.Command = parser.Active.Name

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug, secrets(opts.OpenAIKey, opts.ClaudeKey)...)

	log.Printf("[INFO] starting perspectives %s, version %s", opts.Command, revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %s failed: %v", opts.Command, err)
		os.Exit(1)
	}
	log.Print("[INFO] completed")
}

func run(ctx context.Context, opts Opts) error {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if opts.OpenAIKey != "" {
		cfg.Classifier.OpenAI.APIKey = opts.OpenAIKey
	}
	if opts.ClaudeKey != "" {
		cfg.Classifier.Claude.APIKey = opts.ClaudeKey
	}
	// keys from the config file are known only after loading
	if keys := secrets(cfg.Classifier.OpenAI.APIKey, cfg.Classifier.Claude.APIKey); len(keys) > 0 {
		setupLog(opts.Debug, keys...)
	}

	needSources := opts.Command == "fetch" || opts.Command == "run" || (opts.Command == "serve" && opts.Serve.Every > 0)
	a, err := newApp(ctx, cfg, needSources)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()

	out := color.Output
	switch opts.Command {
	case "fetch":
		rep, err := a.pipe.Fetch(ctx)
		if err != nil {
			return err
		}
		printIngest(out, rep)
	case "classify":
		rep, err := a.pipe.Classification(ctx)
		if err != nil {
			return err
		}
		printClassify(out, rep)
	case "dedup":
		rep, err := a.pipe.Deduplicate(ctx)
		if err != nil {
			return err
		}
		printDedup(out, rep)
	case "cleanup":
		rep, err := a.pipe.Cleanup(ctx)
		if err != nil {
			return err
		}
		printCleanup(out, rep)
	case "run":
		return a.pipe.All(ctx)
	case "serve":
		return serve(ctx, a, opts)
	default:
		return fmt.Errorf("unknown command %q", opts.Command)
	}
	return nil
}

func serve(ctx context.Context, a *app, opts Opts) error {
	if opts.Serve.Every > 0 {
		sch := scheduler.New(opts.Serve.Every, a.pipe.All)
		sch.Start(ctx)
		defer sch.Stop()
	}

	srv := server.New(a.store, a.pulls, server.Params{
		Listen:  a.cfg.Server.Listen,
		Timeout: a.cfg.Server.Timeout,
		BaseURL: opts.Serve.BaseURL,
		Version: revision,
		Debug:   opts.Debug,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func printIngest(w io.Writer, rep pipeline.IngestReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	_, _ = fmt.Fprintf(w, "fetched %s new articles, %s sources failed, next fetch %s\n",
		green(rep.TotalNewArticles), red(rep.FailedSources), rep.NextFetch.Format(time.RFC3339))
	for _, cat := range sortedCategories(rep.Categories) {
		_, _ = fmt.Fprintf(w, "  %-10s %d\n", cat, rep.Categories[cat])
	}
}

func printClassify(w io.Writer, rep pipeline.ClassifyReport) {
	green := color.New(color.FgGreen).SprintFunc()
	_, _ = fmt.Fprintf(w, "classified %s articles, %s moved\n", green(rep.TotalClassified), green(rep.TotalMoved))
	for _, name := range []string{"openai", "claude"} {
		_, _ = fmt.Fprintf(w, "  %-10s available: %v\n", name, rep.APIProviders[name])
	}
}

func printDedup(w io.Writer, rep pipeline.DedupReport) {
	yellow := color.New(color.FgYellow).SprintFunc()
	_, _ = fmt.Fprintf(w, "processed %d articles, %s duplicate groups, %s removed, %d remaining\n",
		rep.TotalArticlesProcessed, yellow(rep.DuplicateGroupsFound), yellow(rep.ArticlesRemoved), rep.ArticlesRemaining)
}

func printCleanup(w io.Writer, rep pipeline.CleanupReport) {
	yellow := color.New(color.FgYellow).SprintFunc()
	_, _ = fmt.Fprintf(w, "removed %s expired articles, %d remaining\n", yellow(rep.TotalRemoved), rep.TotalRemaining)
}

// secrets returns non-empty API keys to mask in logs
func secrets(keys ...string) []string {
	return lo.Filter(keys, func(s string, _ int) bool { return s != "" })
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
