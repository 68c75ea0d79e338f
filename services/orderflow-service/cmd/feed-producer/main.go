package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
	"github.com/muhammadchandra19/orderflow/pkg/redis"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"
)

func main() {
	gen := DefaultGeneratorConfig()

	var (
		sinkName    = flag.String("sink", "stdout", "Where to publish: stdout, file, kafka, redis or questdb")
		out         = flag.String("out", "feed.jsonl", "Output file for the file sink")
		instruments = flag.String("instruments", strings.Join(gen.Instruments, ","), "Instrument ids (comma-separated)")
		basePrice   = flag.Float64("base-price", 3945.5, "Starting price of every instrument")
		tickSize    = flag.Float64("tick-size", 0.05, "Price step of the random walk")
		session     = flag.String("session", "", "Session name for the questdb sink (defaults to QUESTDB_SESSION)")
	)
	flag.IntVar(&gen.Count, "count", gen.Count, "Number of regular lines to generate")
	flag.Int64Var(&gen.StartMs, "start-ms", gen.StartMs, "Epoch milliseconds of the first trade")
	flag.Int64Var(&gen.StepMs, "step-ms", gen.StepMs, "Milliseconds between regular trades")
	flag.Int64Var(&gen.MaxQuantity, "max-qty", gen.MaxQuantity, "Maximum quantity of a regular trade")
	flag.IntVar(&gen.BurstEvery, "burst-every", gen.BurstEvery, "Open a big-player burst every N lines (0 disables)")
	flag.IntVar(&gen.BurstSize, "burst-size", gen.BurstSize, "Trades per burst")
	flag.Int64Var(&gen.BigQuantity, "big-qty", gen.BigQuantity, "Minimum quantity of a burst trade")
	flag.Float64Var(&gen.MalformedShare, "malformed", gen.MalformedShare, "Share of malformed lines in [0, 1]")
	flag.Uint64Var(&gen.Seed, "seed", gen.Seed, "Random seed")
	flag.Parse()

	gen.Instruments = strings.Split(*instruments, ",")
	gen.BasePrice = decimal.NewFromFloat(*basePrice)
	gen.TickSize = decimal.NewFromFloat(*tickSize)

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.App.LoggerOptions("stderr")...)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	lines, err := Generate(gen)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "generate"})
		os.Exit(1)
	}

	var sink Sink
	switch *sinkName {
	case "stdout":
		sink = WriterSink{w: os.Stdout}

	case "file":
		f, err := os.Create(*out)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "create_file"})
			os.Exit(1)
		}
		defer f.Close()
		sink = WriterSink{w: f}

	case "kafka":
		writer := &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		}
		defer writer.Close()
		sink = KafkaSink{writer: writer, batchSize: 500}

	case "redis":
		client := redis.NewClient(log, &cfg.Redis.Config)
		if err := client.Connect(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
			os.Exit(1)
		}
		defer client.Disconnect(ctx)
		sink = RedisSink{client: client, stream: cfg.Redis.Stream}

	case "questdb":
		client, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_questdb"})
			os.Exit(1)
		}
		defer client.Close()
		name := *session
		if name == "" {
			name = cfg.QuestDB.Session
		}
		sink = QuestDBSink{client: client, table: cfg.QuestDB.FeedTable, session: name, now: time.Now}

	default:
		log.Warn("unknown sink", logger.Field{Key: "sink", Value: *sinkName})
		os.Exit(2)
	}

	if err := sink.Publish(ctx, lines); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "publish"})
		os.Exit(1)
	}

	log.Info("feed published",
		logger.Field{Key: "sink", Value: *sinkName},
		logger.Field{Key: "lines", Value: len(lines)},
		logger.Field{Key: "instruments", Value: gen.Instruments},
	)
}
