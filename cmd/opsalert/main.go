package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"opsalert/internal/auth"
	"opsalert/internal/config"
	"opsalert/internal/db"
	"opsalert/internal/events"
	"opsalert/internal/httpserver"
	"opsalert/internal/incidents"
	"opsalert/internal/logging"
	"opsalert/internal/metrics"
	"opsalert/internal/notify"
	"opsalert/internal/storage"
	"opsalert/internal/tracing"
)

type backingStore interface {
	incidents.Store
	incidents.Reader
}

func main() {
	mode := pflag.String("mode", "lambda", "run mode: lambda or http")
	schemaDir := pflag.String("schema-dir", "sql", "directory containing schema.sql (postgres store only)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	logger := logging.New(cfg.LogLevel)

	tp := tracing.Init(ctx, "opsalert", logger)
	defer tp.Shutdown(context.Background())

	rules, err := incidents.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}

	m, err := newMetrics(*mode, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("register metrics: %v", err)
	}

	var awsCfg aws.Config
	if cfg.Store == config.StoreDynamoDB || cfg.Notifier == config.NotifierSNS {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("load aws config: %v", err)
		}
	}

	var store backingStore
	switch cfg.Store {
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer conn.Close()
		if err := db.RunMigrations(ctx, conn, *schemaDir); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
		store = storage.NewPostgresStore(conn)
	default:
		store = storage.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	}

	var notifier incidents.Notifier
	switch cfg.Notifier {
	case config.NotifierRedis:
		client := notify.NewRedisClient(notify.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		notifier = notify.NewRedisNotifier(client)
	default:
		notifier = notify.NewSNSNotifier(sns.NewFromConfig(awsCfg))
	}

	proc := incidents.NewProcessor(rules, store, notifier, cfg.Topic, logger, m)
	logger.Info("processor ready",
		"mode", *mode,
		"store", cfg.Store,
		"notifier", cfg.Notifier,
		"rules", len(rules.Rules),
	)

	switch *mode {
	case "lambda":
		lambda.Start(lambdaHandler(proc, tp.ForceFlush))
	case "http":
		runHTTP(cfg, proc, store, logger)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// newMetrics registers collectors only in http mode; lambda mode has no
// scrape endpoint.
func newMetrics(mode string, reg prometheus.Registerer) (*metrics.Metrics, error) {
	if mode != "http" {
		return nil, nil
	}
	return metrics.New(reg)
}

// lambdaHandler tags processor logs with the invocation's request id and
// flushes buffered spans before the runtime freezes the process.
func lambdaHandler(proc *incidents.Processor, flush func(context.Context) error) func(context.Context, events.Event) (incidents.Result, error) {
	return func(ctx context.Context, e events.Event) (incidents.Result, error) {
		p := *proc
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			p.Logger = proc.Logger.With("request_id", lc.AwsRequestID)
		}
		res, err := p.Process(ctx, e)
		if ferr := flush(ctx); ferr != nil {
			p.Logger.Warn("flush traces", "err", ferr)
		}
		return res, err
	}
}

func runHTTP(cfg config.Config, proc *incidents.Processor, reader incidents.Reader, logger *slog.Logger) {
	rc := httpserver.RouterConfig{
		Processor:     proc,
		IngestKeyHash: cfg.IngestKeyHash,
		Gatherer:      prometheus.DefaultGatherer,
	}
	if cfg.JWTSecret != "" {
		rc.Auth = auth.NewService(cfg.JWTSecret)
		rc.Reader = reader
	}
	server := httpserver.New(cfg.HTTPAddr, httpserver.NewRouter(logger, rc), logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
