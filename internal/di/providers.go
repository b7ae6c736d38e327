package di

import (
    "context"
    "fmt"
    "time"

    "MorningScan/internal/domain/repository"
    domsvc "MorningScan/internal/domain/service"
    "MorningScan/internal/handler/api"
    mid "MorningScan/internal/middleware"
    internalrepo "MorningScan/internal/repository"
    icache "MorningScan/internal/service/cache"
    "MorningScan/internal/services/mapping"
    "MorningScan/internal/services/nlp"
    "MorningScan/internal/services/report"
    "MorningScan/internal/services/sources"
    "MorningScan/internal/usecase"
    pkgch "MorningScan/pkg/clickhouse"
    "MorningScan/pkg/config"
    pkgkafka "MorningScan/pkg/kafka"
    applogger "MorningScan/pkg/logger"
    "MorningScan/pkg/metrics"
    pkgqueue "MorningScan/pkg/queue"
    "MorningScan/pkg/server"

    goredis "github.com/redis/go-redis/v9"
)

// ProvideLogger creates the shared application logger.
func ProvideLogger() *applogger.Logger {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		panic(fmt.Sprintf("logger init: %v", err))
	}
	return l
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePickStore creates the ClickHouse pick repository.
func ProvidePickStore(chClient *pkgch.Client, cfg *config.Config) (repository.PickStore, error) {
	store := internalrepo.NewClickHousePickStore(chClient.DB(), cfg.ClickHouse.Database+".picks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("pick store init: %w", err)
	}
	return store, nil
}

// ProvidePickPublisher creates the Kafka pick publisher.
func ProvidePickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPickPublisher(producer, cfg.Kafka.Topic)
}

// ProvideScanRunStore creates the ClickHouse scan history store.
func ProvideScanRunStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.ScanRunStore, error) {
	store := internalrepo.NewCHScanRunStore(chClient, cfg.ClickHouse.Database+".scan_runs")
	store.SetLogger(l)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("scan run store init: %w", err)
	}
	return store, nil
}

// ProvideClassifier builds the scoring core.
func ProvideClassifier(l *applogger.Logger) domsvc.Classifier {
	c := nlp.NewClassifier(nlp.NewKeywordAnalyzer(), nlp.NewSignalDetector())
	c.SetLogger(l)
	return c
}

// ProvideCompanyMapper builds the ticker mapper.
func ProvideCompanyMapper() domsvc.CompanyMapper {
	return mapping.NewTickerMapper()
}

// ProvideSources assembles all configured pull sources.
func ProvideSources(cfg *config.Config) []repository.ArticleSource {
	timeout := cfg.Sources.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var out []repository.ArticleSource
	for _, f := range cfg.Sources.RSS {
		out = append(out, sources.NewRSSSource(f.Name, f.URL, timeout))
	}
	if cfg.Sources.DIWeb.Enabled {
		out = append(out, sources.NewDIWebSource(timeout))
	}
	return out
}

// ProvideMFNStream creates the MFN WebSocket stream, nil when disabled.
func ProvideMFNStream(cfg *config.Config) repository.NewsStream {
	if !cfg.Sources.MFN.Enabled {
		return nil
	}
	return sources.NewMFNStream(
		cfg.Sources.MFN.WebSocketURL,
		"",
		cfg.Sources.MFN.ReconnectDelay,
		cfg.Sources.MFN.PingInterval,
	)
}

// ProvideReportSender creates the email reporter, nil when disabled.
func ProvideReportSender(cfg *config.Config, l *applogger.Logger) domsvc.ReportSender {
	if !cfg.Report.Email.Enabled {
		return nil
	}
	sender := report.NewEmailSender(report.EmailConfig{
		Host:     cfg.Report.Email.Host,
		Port:     cfg.Report.Email.Port,
		Username: cfg.Report.Email.Username,
		Password: cfg.Report.Email.Password,
		From:     cfg.Report.Email.From,
		To:       cfg.Report.Email.To,
	}, l)
	if cfg.Report.CSVPath != "" {
		sender.SetAttachment(cfg.Report.CSVPath)
	}
	return sender
}

// ProvidePickLog creates the CSV audit log, nil when no path is set.
func ProvidePickLog(cfg *config.Config) *report.CSVPickLog {
	if cfg.Report.CSVPath == "" {
		return nil
	}
	return report.NewCSVPickLog(cfg.Report.CSVPath)
}

// ProvideArticleProcessor creates the per-article scoring use case.
func ProvideArticleProcessor(
	classifier domsvc.Classifier,
	mapper domsvc.CompanyMapper,
	pub repository.Publisher,
	store repository.PickStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.ArticleProcessor {
	return usecase.NewArticleProcessor(
		classifier,
		mapper,
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Scanner.MinRelevance,
	)
}

// ProvideScanPipeline creates the full scan orchestrator.
func ProvideScanPipeline(
	srcs []repository.ArticleSource,
	proc *usecase.ArticleProcessor,
	classifier domsvc.Classifier,
	mapper domsvc.CompanyMapper,
	reporter domsvc.ReportSender,
	pickLog *report.CSVPickLog,
	runs repository.ScanRunStore,
	metrics repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ScanPipeline {
	return usecase.NewScanPipeline(
		srcs,
		proc,
		classifier,
		mapper,
		nlp.NewAggregator(),
		reporter,
		pickLog,
		runs,
		metrics,
		l,
		cfg.Scanner.MaxItems,
	)
}

// ProvideArticleCollector creates the streaming collector, nil when the
// stream is disabled.
func ProvideArticleCollector(
    stream repository.NewsStream,
    processor *usecase.ArticleProcessor,
    metrics repository.Metrics,
) *usecase.ArticleCollector {
    if stream == nil {
        return nil
    }
    pipe := mid.NewIntakePipeline(processor, metrics,
        mid.WithMaxRPS(10),
        mid.WithBufferSize(500),
    )
    return usecase.NewArticleCollector(stream, processor, metrics, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
// Returns nil when no inbound articles topic is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.ArticlesIn == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaArticlesHandler registers the handler for the raw articles topic.
func ProvideKafkaArticlesHandler(proc *usecase.ArticleProcessor, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaArticlesHandler {
	return usecase.NewKafkaArticlesHandler(cfg.Kafka.ArticlesIn, proc, metrics)
}

// ProvideRedisQueue creates the async scan queue, nil when Redis is disabled.
func ProvideRedisQueue(cfg *config.Config, pipeline *usecase.ScanPipeline, l *applogger.Logger) *pkgqueue.RedisQueue {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
		Workers:    1,
		QueueSize:  16,
		RetryLimit: 2,
		RetryDelay: time.Minute,
	}, client, pkgqueue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewScanJob(pipeline, l))
	return q
}

// ProvideScannerHandler wires the HTTP surface.
func ProvideScannerHandler(
	classifier domsvc.Classifier,
	pipeline *usecase.ScanPipeline,
	picks repository.PickStore,
	runs repository.ScanRunStore,
	queue *pkgqueue.RedisQueue,
	cfg *config.Config,
	l *applogger.Logger,
) *api.ScannerHandler {
	h := api.NewScannerHandler(classifier, pipeline, picks, runs)
	h.SetLogger(l)
	if cfg.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	if queue != nil {
		h.SetEnqueue(func(msgType string, payload interface{}) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return queue.Enqueue(ctx, msgType, payload)
		})
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
    cfg *config.Config,
    pipeline *usecase.ScanPipeline,
    collector *usecase.ArticleCollector,
    consumer *pkgkafka.Consumer,
    kh *usecase.KafkaArticlesHandler,
    queue *pkgqueue.RedisQueue,
    chClient *pkgch.Client,
    handler *api.ScannerHandler,
    proc *usecase.ArticleProcessor,
    m repository.Metrics,
    l *applogger.Logger,
) *server.App {
    if consumer != nil {
        consumer.WithConsumerHook(usecase.NewConsumerHook(m, l))
    }
    app := server.New(cfg, pipeline, collector, consumer, kh, queue, chClient)
    app.SetHTTPHandler(handler)
    app.Proc = proc
    return app
}
