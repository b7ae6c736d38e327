// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"MorningScan/pkg/config"
	"MorningScan/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	v := ProvideSources(cfg)
	logger := ProvideLogger()
	classifier := ProvideClassifier(logger)
	companyMapper := ProvideCompanyMapper()
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	publisher := ProvidePickPublisher(producer, cfg)
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	pickStore, err := ProvidePickStore(client, cfg)
	if err != nil {
		return nil, err
	}
	metrics := ProvideMetrics()
	articleProcessor := ProvideArticleProcessor(classifier, companyMapper, publisher, pickStore, metrics, cfg)
	reportSender := ProvideReportSender(cfg, logger)
	csvPickLog := ProvidePickLog(cfg)
	scanRunStore, err := ProvideScanRunStore(client, cfg, logger)
	if err != nil {
		return nil, err
	}
	scanPipeline := ProvideScanPipeline(v, articleProcessor, classifier, companyMapper, reportSender, csvPickLog, scanRunStore, metrics, logger, cfg)
	newsStream := ProvideMFNStream(cfg)
	articleCollector := ProvideArticleCollector(newsStream, articleProcessor, metrics)
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	kafkaArticlesHandler := ProvideKafkaArticlesHandler(articleProcessor, metrics, cfg)
	redisQueue := ProvideRedisQueue(cfg, scanPipeline, logger)
	scannerHandler := ProvideScannerHandler(classifier, scanPipeline, pickStore, scanRunStore, redisQueue, cfg, logger)
	app := ProvideApp(cfg, scanPipeline, articleCollector, consumer, kafkaArticlesHandler, redisQueue, client, scannerHandler, articleProcessor, metrics, logger)
	return app, nil
}
