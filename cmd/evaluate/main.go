// evaluate — один батч по символам и отчёт в stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"signal_bot/internal/evaluator"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	marketdata "signal_bot/internal/modules/marketdata/service"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
)

// Report — результат одного прогона.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Timeframe   string          `json:"timeframe" yaml:"timeframe"`
	Signals     []models.Signal `json:"signals" yaml:"signals"`
}

func main() {
	var (
		symbols   = flag.String("symbols", "", "comma separated instruments; empty: config symbols or top volatile")
		format    = flag.String("format", "json", "json or yaml")
		strat     = flag.String("strategy", "", "override strategy for every symbol")
		timeframe = flag.String("timeframe", "", "override engine.timeframe")
		timeout   = flag.Duration("timeout", time.Minute, "whole batch deadline")
	)
	flag.Parse()

	if err := run(*symbols, *format, *strat, *timeframe, *timeout, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(symbols, format, strat, timeframe string, timeout time.Duration, out io.Writer) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if timeframe != "" {
		cfg.Engine.Timeframe = timeframe
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Init(zl)
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := marketdata.NewClient(cfg.Engine.OKXBaseURL, zl.Named("okx"))
	list := splitSymbols(symbols)
	if len(list) == 0 {
		list = marketdata.NewWatchlist(cfg.SymbolList(), cfg.Engine.WatchTopN, client, zl).Symbols(ctx)
	}
	if len(list) == 0 {
		return errors.New("no symbols to evaluate")
	}

	var assign evaluator.AssignmentSource = cfg
	if strat != "" {
		assign = overrideStrategy{base: cfg, name: strat}
	}
	eval := evaluator.New(evaluator.Config{
		Timeframe:    cfg.Engine.Timeframe,
		WindowLength: cfg.Engine.WindowLength,
		Workers:      cfg.Engine.Workers,
		FetchTimeout: cfg.Engine.FetchTimeout,
	}, zl.Named("evaluator"), client, assign, strategy.NewDefaultRegistry(), nil)

	results := eval.EvaluateAll(ctx, list)
	zl.Debug("batch done", zap.Int("symbols", len(list)), zap.Int("signals", len(results)))

	rep := Report{GeneratedAt: time.Now().UTC(), Timeframe: cfg.Engine.Timeframe}
	for _, s := range results {
		rep.Signals = append(rep.Signals, s)
	}
	sort.Slice(rep.Signals, func(i, j int) bool { return rep.Signals[i].Symbol < rep.Signals[j].Symbol })

	return writeReport(out, rep, format)
}

func writeReport(w io.Writer, rep Report, format string) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(format) {
	case "json":
		b, err = sonic.ConfigStd.MarshalIndent(rep, "", "  ")
	case "yaml", "yml":
		b, err = yaml.Marshal(rep)
	default:
		return errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(b), "\n"))
	return err
}

func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

type overrideStrategy struct {
	base evaluator.AssignmentSource
	name string
}

func (o overrideStrategy) Assignment(symbol string) models.Assignment {
	a := o.base.Assignment(symbol)
	a.Strategy = o.name
	return a
}
