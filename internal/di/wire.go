//go:build wireinject
// +build wireinject

package di

import (
	"MorningScan/pkg/config"
	"MorningScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
    wire.Build(
        ProvideLogger,
        ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisQueue,

		// Repositories (with business logic)
		ProvidePickStore,
		ProvidePickPublisher,
		ProvideScanRunStore,

		// Scoring core and sources
		ProvideClassifier,
		ProvideCompanyMapper,
		ProvideSources,
		ProvideMFNStream,
		ProvideReportSender,
		ProvidePickLog,

        // Use cases
        ProvideArticleProcessor,
        ProvideScanPipeline,
        ProvideArticleCollector,
        ProvideKafkaArticlesHandler,

        // HTTP surface
        ProvideScannerHandler,

        // Application server
        ProvideApp,
    )
    return &server.App{}, nil
}
