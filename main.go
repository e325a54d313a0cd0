package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"framesviewer/hal"
	"framesviewer/internal/buildinfo"
	"framesviewer/internal/demo"
	"framesviewer/internal/ingest"
	"framesviewer/viewer"
)

type options struct {
	configPath string
	headless   bool
	hz         int
	ticks      uint64
	width      int
	height     int
	demo       string
	stdin      bool
	labels     bool
	verbose    bool
}

func main() {
	var opts options
	var showVersion bool
	flag.StringVar(&opts.configPath, "config", "", "Path to a JSON config file.")
	flag.BoolVar(&opts.headless, "headless", false, "Run without a window.")
	flag.IntVar(&opts.hz, "hz", 60, "Render tick rate.")
	flag.Uint64Var(&opts.ticks, "ticks", 0, "Stop after N ticks (0 = run until closed).")
	flag.IntVar(&opts.width, "width", 960, "Window width in pixels.")
	flag.IntVar(&opts.height, "height", 720, "Window height in pixels.")
	flag.StringVar(&opts.demo, "demo", "", "Run a scripted producer: "+strings.Join(demo.Names(), ", ")+".")
	flag.BoolVar(&opts.stdin, "stdin", false, "Read frame updates from stdin.")
	flag.BoolVar(&opts.labels, "labels", false, "Draw frame names.")
	flag.BoolVar(&opts.verbose, "v", false, "Log debug output.")
	flag.BoolVar(&showVersion, "version", false, "Print the version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	viewer.SetLogger(log)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	code := 0
	hal.Main(func() { code = run(opts, set, log) })
	os.Exit(code)
}

func run(opts options, set map[string]bool, log *slog.Logger) int {
	cfg, err := loadConfig(opts, set)
	if err != nil {
		log.Error("config", "err", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var driver hal.Driver = hal.Window{}
	if opts.headless {
		driver = hal.Headless{}
	}
	v := viewer.New(cfg, viewer.WithDriver(driver))
	log.Info("starting", buildinfo.Attr(), "headless", opts.headless)
	if err := v.Start(); err != nil {
		log.Error("start", "err", err)
		return 1
	}
	defer v.Close()

	prodCtx, cancelProducers := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if opts.demo != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := demo.Run(prodCtx, opts.demo, v, demo.Options{Log: log}); err != nil {
				log.Error("demo", "err", err)
			}
		}()
	}
	if opts.stdin {
		// Not joined: a blocked read on stdin cannot be interrupted.
		go func() {
			if _, err := ingest.Run(prodCtx, os.Stdin, v, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("ingest", "err", err)
			}
		}()
	}

	waited := make(chan error, 1)
	go func() { waited <- v.Wait() }()

	var loopErr error
	select {
	case <-ctx.Done():
		log.Info("interrupted")
		loopErr = v.Stop()
	case <-waited:
		loopErr = v.Stop()
	}
	cancelProducers()
	wg.Wait()

	if loopErr != nil {
		log.Error("render loop", "err", loopErr)
		return 1
	}
	return 0
}

func loadConfig(opts options, set map[string]bool) (viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = viewer.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Title = "framesviewer (" + buildinfo.Short() + ")"
	if set["hz"] || opts.configPath == "" {
		cfg.Hz = opts.hz
	}
	if set["width"] || opts.configPath == "" {
		cfg.Width = opts.width
	}
	if set["height"] || opts.configPath == "" {
		cfg.Height = opts.height
	}
	if set["ticks"] {
		cfg.Ticks = opts.ticks
	}
	if set["labels"] {
		cfg.Labels = opts.labels
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
