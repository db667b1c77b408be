package di

import (
	"context"
	"fmt"

	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/domain/service"
	"github.com/mikey22333/startup-sub001/internal/handler/api"
	internalrepo "github.com/mikey22333/startup-sub001/internal/repository"
	"github.com/mikey22333/startup-sub001/internal/service/countries"
	"github.com/mikey22333/startup-sub001/internal/service/econdata"
	"github.com/mikey22333/startup-sub001/internal/service/firehose"
	"github.com/mikey22333/startup-sub001/internal/service/geocode"
	"github.com/mikey22333/startup-sub001/internal/service/newsfeed"
	"github.com/mikey22333/startup-sub001/internal/service/places"
	"github.com/mikey22333/startup-sub001/internal/service/ratelimit"
	"github.com/mikey22333/startup-sub001/internal/service/reddit"
	"github.com/mikey22333/startup-sub001/internal/services/finmodel"
	"github.com/mikey22333/startup-sub001/internal/services/market"
	"github.com/mikey22333/startup-sub001/internal/usecase"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	pkgch "github.com/mikey22333/startup-sub001/pkg/clickhouse"
	"github.com/mikey22333/startup-sub001/pkg/config"
	xhttp "github.com/mikey22333/startup-sub001/pkg/http"
	pkgkafka "github.com/mikey22333/startup-sub001/pkg/kafka"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/metrics"
	"github.com/mikey22333/startup-sub001/pkg/server"
)

// ProvideLogger creates the logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the shared client for upstream providers.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Timeout))
}

// ProvideCache selects the cache backend. Redis-backed deployments get the
// layered cache so hot keys are still served from process memory.
func ProvideCache(cfg *config.Config, log *logger.Logger) (cache.Service, error) {
	memOpts := []cache.MemoryOption{cache.WithMemoryMaxSize(cfg.Cache.MaxEntries)}

	if !cfg.Cache.Redis.Enabled {
		log.Info("cache: in-memory", logger.Int("maxEntries", cfg.Cache.MaxEntries))
		return cache.NewMemoryCache(memOpts...), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	log.Info("cache: layered redis",
		logger.String("host", cfg.Cache.Redis.Host),
		logger.Int("port", cfg.Cache.Redis.Port))
	return cache.NewLayeredCache(redisCache, memOpts...), nil
}

// ProvideStore opens the SQLite snapshot store.
func ProvideStore(cfg *config.Config, log *logger.Logger) (*internalrepo.SQLiteStore, error) {
	store, err := internalrepo.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: %w", err)
	}
	log.Info("sqlite store opened", logger.String("path", cfg.Store.Path))
	return store, nil
}

// ProvideSnapshotStore exposes the SQLite store as the snapshot interface.
func ProvideSnapshotStore(store *internalrepo.SQLiteStore) repository.SnapshotStore {
	return store
}

// ProvideAuditLog exposes the SQLite store as the audit log interface.
func ProvideAuditLog(store *internalrepo.SQLiteStore) repository.AuditLog {
	return store
}

// ProvideClickHouseClient connects to ClickHouse when the signal archive is
// enabled; otherwise it returns nil and the archive degrades to a no-op.
func ProvideClickHouseClient(cfg *config.Config, log *logger.Logger) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	log.Info("clickhouse connected", logger.String("host", cfg.ClickHouse.Host))
	return client, nil
}

// ProvideSignalArchive builds the ClickHouse-backed archive, or a no-op when
// ClickHouse is disabled.
func ProvideSignalArchive(client *pkgch.Client, log *logger.Logger) (repository.SignalArchive, error) {
	if client == nil {
		return internalrepo.NoopSignalArchive{}, nil
	}
	archive, err := internalrepo.NewSignalArchive(context.Background(), client)
	if err != nil {
		return nil, fmt.Errorf("signal archive: %w", err)
	}
	return archive, nil
}

// ProvideKafkaProducer creates the producer when refresh events are enabled;
// otherwise it returns nil and publishing degrades to a no-op.
func ProvideKafkaProducer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.Info("kafka producer ready", logger.String("topic", cfg.Kafka.Topic))
	return producer, nil
}

// ProvideEventPublisher wraps the producer, or degrades to a no-op.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NoopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideRateLimiter creates the shared keyed token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideEconClient creates the economic-indicator client.
func ProvideEconClient(cfg *config.Config, httpClient *xhttp.Client, log *logger.Logger) *econdata.Client {
	return econdata.New(httpClient, cfg.Providers.Economic.WorldBankURL, cfg.Providers.Economic.IMFURL, log)
}

// ProvideCountriesClient creates the country metadata resolver.
func ProvideCountriesClient(cfg *config.Config, httpClient *xhttp.Client, log *logger.Logger) *countries.Client {
	return countries.New(httpClient, cfg.Providers.Countries.BaseURL, log)
}

// ProvideGeocodeClient creates the forward geocoder. Nominatim requires an
// identifying User-Agent, so it gets its own HTTP client.
func ProvideGeocodeClient(cfg *config.Config, limiter *ratelimit.Limiter, log *logger.Logger) *geocode.Client {
	httpClient := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Providers.Timeout),
		xhttp.WithUserAgent(cfg.Providers.Geocode.UserAgent),
	)
	return geocode.New(httpClient, cfg.Providers.Geocode.BaseURL, limiter, log)
}

// ProvidePlacesClient creates the POI client.
func ProvidePlacesClient(cfg *config.Config, httpClient *xhttp.Client, limiter *ratelimit.Limiter, log *logger.Logger) *places.Client {
	return places.New(httpClient, cfg.Providers.Places.BaseURL, limiter, log)
}

// ProvideFirehoseClient creates the websocket mention collector when enabled;
// nil otherwise.
func ProvideFirehoseClient(cfg *config.Config, log *logger.Logger) *firehose.Client {
	if !cfg.Providers.Firehose.Enabled {
		return nil
	}
	fh := cfg.Providers.Firehose
	return firehose.New(fh.URL, fh.BufferSize, fh.ReconnectDelay, fh.PingInterval, log)
}

// ProvideMentionSources assembles the sentiment fan-out set. Sources with no
// configured endpoint are skipped.
func ProvideMentionSources(cfg *config.Config, fh *firehose.Client, log *logger.Logger) []service.MentionSource {
	var sources []service.MentionSource

	if cfg.Providers.News.FeedURL != "" {
		sources = append(sources, newsfeed.New(cfg.Providers.News.FeedURL, cfg.Providers.News.MaxItems, log))
	}
	if cfg.Providers.Reddit.BaseURL != "" {
		httpClient := xhttp.NewClient(
			xhttp.WithTimeout(cfg.Providers.Timeout),
			xhttp.WithUserAgent(cfg.Providers.Reddit.UserAgent),
		)
		sources = append(sources, reddit.New(httpClient, cfg.Providers.Reddit.BaseURL, cfg.Providers.Reddit.MaxItems, log))
	}
	if fh != nil {
		sources = append(sources, fh)
	}
	return sources
}

// ProvideTrendsSource builds the market trends adapter.
func ProvideTrendsSource(econ *econdata.Client, countriesClient *countries.Client, m repository.Metrics, log *logger.Logger) service.TrendsSource {
	return market.NewTrendsAdapter(econ, countriesClient, m, log)
}

// ProvideCompetitorSource builds the competitor analysis adapter.
func ProvideCompetitorSource(geocoder *geocode.Client, placesClient *places.Client, m repository.Metrics, log *logger.Logger) service.CompetitorSource {
	return market.NewCompetitorAdapter(geocoder, placesClient, m, log)
}

// ProvideSentimentSource builds the consumer sentiment adapter.
func ProvideSentimentSource(sources []service.MentionSource, archive repository.SignalArchive, m repository.Metrics, log *logger.Logger) service.SentimentSource {
	return market.NewSentimentAdapter(sources, archive, m, log)
}

// ProvideAggregator builds the concurrent source aggregator.
func ProvideAggregator(trends service.TrendsSource, competitors service.CompetitorSource, sentiment service.SentimentSource, m repository.Metrics, log *logger.Logger) *usecase.Aggregator {
	return usecase.NewAggregator(trends, competitors, sentiment, m, log)
}

// ProvideInsightsManager builds the cached snapshot manager.
func ProvideInsightsManager(cfg *config.Config, aggregator *usecase.Aggregator, cacheSvc cache.Service, store repository.SnapshotStore, m repository.Metrics, log *logger.Logger) *usecase.InsightsManager {
	return usecase.NewInsightsManager(aggregator, cacheSvc, store, m, log,
		cfg.Cache.TTL, cfg.Insights.DurableFreshness, cfg.Insights.CompetitorRadius)
}

// ProvideScheduler builds the staleness-driven refresh scheduler.
func ProvideScheduler(cfg *config.Config, manager *usecase.InsightsManager, store repository.SnapshotStore, audit repository.AuditLog, events repository.EventPublisher, cacheSvc cache.Service, m repository.Metrics, log *logger.Logger) *usecase.Scheduler {
	return usecase.NewScheduler(manager, store, audit, events, cacheSvc, m, log, usecase.SchedulerConfig{
		ScanInterval:   cfg.Scheduler.ScanInterval,
		MaxPerRun:      cfg.Scheduler.MaxPerRun,
		BatchSize:      cfg.Scheduler.BatchSize,
		BatchPause:     cfg.Scheduler.BatchPause,
		ForceBatchSize: cfg.Scheduler.ForceBatchSize,
		ForcePause:     cfg.Scheduler.ForcePause,
	})
}

// ProvideEnhancer builds the financial model enhancer.
func ProvideEnhancer(log *logger.Logger) *finmodel.Enhancer {
	return finmodel.NewEnhancer(log)
}

// ProvideHandler builds the HTTP handler.
func ProvideHandler(log *logger.Logger, aggregator *usecase.Aggregator, insights *usecase.InsightsManager, scheduler *usecase.Scheduler, enhancer *finmodel.Enhancer) xhttp.Handler {
	return api.NewMarketHandler(log, aggregator, insights, scheduler, enhancer)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.Scheduler,
	fh *firehose.Client,
	store *internalrepo.SQLiteStore,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, log, handler, scheduler, fh, store, cacheSvc, chClient, producer)
}
