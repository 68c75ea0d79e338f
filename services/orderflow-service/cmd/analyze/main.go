package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/bootstrap"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/codec"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"

	pipelinev1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	instrument      string
	interval        string
	thresholdQ      int64
	thresholdBig    int64
	source          string
	file            string
	out             string
	listInstruments bool
	pretty          bool
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.instrument, "instrument", cfg.Pipeline.Instrument, "Instrument id to analyse, e.g. NSE_FO|45450")
	fs.StringVar(&opts.interval, "interval", cfg.Pipeline.Interval, fmt.Sprintf("Bar interval, e.g. 30s, \"1 minute\" (presets: %v)", interval.GetPresetNames()))
	fs.Int64Var(&opts.thresholdQ, "q", cfg.Pipeline.ThresholdQ, "Minimum total quantity of a same-millisecond burst")
	fs.Int64Var(&opts.thresholdBig, "big", cfg.Pipeline.ThresholdBigPlayer, "Big-player trade quantity threshold")
	fs.StringVar(&opts.source, "source", cfg.Feed.Source, "Feed source: file, kafka, redis or questdb")
	fs.StringVar(&opts.file, "file", cfg.Feed.FilePath, "Feed file for the file source (.gz supported)")
	fs.StringVar(&opts.out, "out", "", "Write the result to this file instead of stdout")
	fs.BoolVar(&opts.listInstruments, "list-instruments", false, "Print the instrument ids found in the feed and exit")
	fs.BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}
	cfg.Feed.Source = opts.source
	cfg.Feed.FilePath = opts.file

	log, err := logger.NewLogger(cfg.App.LoggerOptions("stderr")...)
	if err != nil {
		return err
	}
	defer log.Sync()

	pipelineCfg := pipelinev1.Config{
		InstrumentID:       opts.instrument,
		Interval:           opts.interval,
		ThresholdQ:         opts.thresholdQ,
		ThresholdBigPlayer: opts.thresholdBig,
	}
	if !opts.listInstruments {
		if err := pipelineCfg.Validate(); err != nil {
			return err
		}
	}

	feed, err := bootstrap.NewFeed(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer feed.Close()

	lines, err := feed.Source.ReadLines(ctx)
	if err != nil {
		return err
	}

	var output interface{}
	if opts.listInstruments {
		output = codec.Instruments(lines)
	} else {
		b := &bootstrap.Bootstrap{}
		app := b.Init(bootstrap.BoostrapConfig{Logger: log})

		result, err := app.Usecase.PipelineUsecase.Run(ctx, lines, pipelineCfg)
		if err != nil {
			return err
		}
		output = result
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(output)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}
