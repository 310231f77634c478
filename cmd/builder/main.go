package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketVault/internal/collector"
	"MarketVault/internal/config"
	"MarketVault/internal/model"
	"MarketVault/internal/pipeline"
	"MarketVault/internal/recorder"
	"MarketVault/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketVault starting...")

	var (
		flagConfig     = flag.String("config", "", "path to config file (default configs/config.yaml)")
		flagStart      = flag.String("start", "", "start date (YYYY-MM-DD), default from config")
		flagEnd        = flag.String("end", "", "end date (YYYY-MM-DD), default today")
		flagExtraLimit = flag.Int("extra-limit", -1, "number of non-index equities to include")
		flagSkipStocks = flag.Bool("skip-stocks", false, "skip equity/ETF downloads")
		flagSkipCrypto = flag.Bool("skip-crypto", false, "skip cryptocurrency downloads")
		flagThrottle   = flag.Float64("throttle", -1, "delay between metadata requests (seconds)")
		flagEmitStatic = flag.Bool("emit-static", false, "export client JSON assets after the build")
		flagCron       = flag.String("cron", "", "cron expression for periodic rebuilds; empty runs once")
	)
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *flagConfig != "" {
		cfgPath = *flagConfig
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	opts, err := buildOptions(cfg, *flagStart, *flagEnd, *flagExtraLimit, *flagThrottle)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	opts.SkipStocks = *flagSkipStocks
	opts.SkipCrypto = *flagSkipCrypto
	opts.EmitClient = *flagEmitStatic

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Provider.SnapshotDir != "" {
		fetcher = collector.NewFileFetcher(cfg.Provider.SnapshotDir)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Provider.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	index := collector.NewIndexSource(cfg.Index.URL, cfg.Index.CacheFile, cfg.Provider.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite journal failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	p := pipeline.NewPipeline(cfg, fetcher, index, rec)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cronSpec := cfg.Schedule.Cron
	if *flagCron != "" {
		cronSpec = *flagCron
	}

	if cronSpec == "" {
		go func() {
			<-sigCh
			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
		}()
		if err := p.Run(ctx, resolveWindow(opts)); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Println("[INFO] build interrupted")
				return
			}
			log.Fatalf("[FATAL] build run: %v", err)
		}
		return
	}

	// Periodic mode: rebuild on the cron schedule until interrupted.
	sched := scheduler.NewScheduler()
	err = sched.Register(cronSpec, func() {
		if err := p.Run(ctx, resolveWindow(opts)); err != nil {
			log.Printf("[ERROR] build run: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing build now")
		go func() {
			if err := p.Run(ctx, resolveWindow(opts)); err != nil {
				log.Printf("[ERROR] build run: %v", err)
			}
		}()
	}

	log.Println("[INFO] MarketVault is running. Press Ctrl+C to stop.")
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] MarketVault stopped")
}

// buildOptions merges flag values over config defaults.
func buildOptions(cfg *config.Config, start, end string, extraLimit int, throttle float64) (pipeline.Options, error) {
	opts := pipeline.Options{
		ExtraLimit: cfg.Universe.ExtraLimit,
		Throttle:   cfg.ThrottleDuration(),
	}

	startDate, err := cfg.StartDate()
	if err != nil {
		return opts, err
	}
	if start != "" {
		if startDate, err = model.ParseDate(start); err != nil {
			return opts, err
		}
	}
	opts.Start = startDate

	if end != "" {
		endDate, err := model.ParseDate(end)
		if err != nil {
			return opts, err
		}
		opts.End = endDate
	}

	if extraLimit >= 0 {
		opts.ExtraLimit = extraLimit
	}
	if throttle >= 0 {
		opts.Throttle = time.Duration(throttle * float64(time.Second))
	}
	return opts, nil
}

// resolveWindow fills the end date at run time, so scheduled rebuilds always
// extend to the current day.
func resolveWindow(opts pipeline.Options) pipeline.Options {
	if opts.End.IsZero() {
		opts.End = model.Today()
	}
	return opts
}
