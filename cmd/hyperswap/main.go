package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/params"
	"github.com/uhyunpark/hyperswap/pkg/app/core/engine"
	"github.com/uhyunpark/hyperswap/pkg/metrics"
	"github.com/uhyunpark/hyperswap/pkg/scenario"
	"github.com/uhyunpark/hyperswap/pkg/storage"
	"github.com/uhyunpark/hyperswap/pkg/util"
)

func main() {
	var (
		scenarioPath  = pflag.StringP("scenario", "s", "", "scenario YAML file to run (required)")
		envPath       = pflag.String("env", "", "path to .env file (default: ./.env)")
		journalPath   = pflag.String("journal", "", "pebble journal directory (overrides JOURNAL_PATH)")
		outPath       = pflag.StringP("out", "o", "", "write the JSON report here instead of stdout")
		deterministic = pflag.Bool("deterministic", false, "stamp orders from a step clock instead of wall time")
	)
	pflag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: hyperswap --scenario FILE [flags]")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	cfg := params.LoadFromEnv(*envPath)
	if *journalPath != "" {
		cfg.Journal.Path = *journalPath
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "level", cfg.Log.Level, "log_file", cfg.Log.File)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg, cfg.Metrics.Namespace)

	e := engine.New(
		engine.WithLogger(logger),
		engine.WithMetrics(collector),
		engine.WithRatioConvention(cfg.Engine.RatioConvention),
		engine.WithDirectRoute(cfg.Engine.DirectRoute),
	)
	sugar.Infow("engine_ready",
		"ratio_convention", cfg.Engine.RatioConvention.String(),
		"direct_route", cfg.Engine.DirectRoute)

	var clock util.Clock = util.RealClock{}
	if *deterministic {
		clock = util.NewStepClock(time.Unix(0, 0), time.Millisecond)
	}

	if cfg.Journal.Path != "" {
		j, err := storage.Open(cfg.Journal.Path, logger)
		if err != nil {
			sugar.Fatalw("journal_open_failed", "path", cfg.Journal.Path, "err", err)
		}
		defer j.Close()
		j.Attach(e, clock)
		sugar.Infow("journal_attached", "path", cfg.Journal.Path, "seq", j.Seq())
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		sugar.Fatalw("scenario_load_failed", "path", *scenarioPath, "err", err)
	}
	sc.FallbackTolerance(cfg.Engine.DefaultTolerance)

	rep, err := scenario.Run(e, sc, clock)
	if err != nil {
		sugar.Fatalw("scenario_run_failed", "err", err)
	}

	failed := 0
	for _, st := range rep.Steps {
		if !st.OK {
			failed++
		}
	}
	sugar.Infow("scenario_complete",
		"name", rep.Name,
		"steps", len(rep.Steps),
		"failed_steps", failed,
		"trades", len(rep.Trades))

	if families, err := reg.Gather(); err == nil {
		sugar.Debugw("metrics_gathered", "families", len(families))
	}

	if err := writeReport(rep, *outPath); err != nil {
		sugar.Fatalw("report_write_failed", "err", err)
	}
}

func newLogger(cfg params.Log) (*zap.Logger, error) {
	if cfg.File != "" {
		return util.NewLoggerWithFile(cfg.File, cfg.Level)
	}
	return util.NewLogger(cfg.Level)
}

func writeReport(rep *scenario.Report, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
