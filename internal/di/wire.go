//go:build wireinject
// +build wireinject

package di

import (
	"github.com/mikey22333/startup-sub001/pkg/config"
	"github.com/mikey22333/startup-sub001/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideHTTPClient,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRateLimiter,

		// Repositories
		ProvideStore,
		ProvideSnapshotStore,
		ProvideAuditLog,
		ProvideSignalArchive,
		ProvideEventPublisher,

		// Provider clients and mention sources
		ProvideEconClient,
		ProvideCountriesClient,
		ProvideGeocodeClient,
		ProvidePlacesClient,
		ProvideFirehoseClient,
		ProvideMentionSources,

		// Source adapters
		ProvideTrendsSource,
		ProvideCompetitorSource,
		ProvideSentimentSource,

		// Use cases
		ProvideAggregator,
		ProvideInsightsManager,
		ProvideScheduler,
		ProvideEnhancer,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
