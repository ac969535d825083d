package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	config_aws "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"enricher-worker/config"
	"enricher-worker/repositories"
	"enricher-worker/services"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume enrichment jobs from SQS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.cfg.RequireWorker(); err != nil {
				return err
			}
			return runWorker(cmd.Context(), a)
		},
	}
}

func runWorker(parent context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	awsCfg, err := config_aws.LoadDefaultConfig(parent, config_aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}
	sqsClient := repositories.NewSQSClient(sqs.NewFromConfig(awsCfg))

	opts, err := workerBackends(cfg, logger, awsCfg.Copy(), sqsClient)
	if err != nil {
		return err
	}
	opts = append(opts,
		services.WithEnricher(a.enricher),
		services.WithJobTokenSymbol(cfg.TokenSymbol),
		services.WithWorkerLogger(logger),
	)
	workerService := services.NewWorkerService(opts...)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsHandler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("Metrics server stopped")
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	// Graceful Shutdown handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.WithField("signal", sig.String()).Info("Received signal, initiating shutdown...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.WithFields(logrus.Fields{
		"workers": cfg.NumWorkers,
		"token":   cfg.TokenSymbol,
		"queue":   cfg.InputQueueURL,
	}).Info("Enricher worker started (Concurrent Worker Pool)")

	pool := &workerPool{
		queue:      sqsClient,
		processor:  workerService,
		queueURL:   cfg.InputQueueURL,
		numWorkers: cfg.NumWorkers,
		logger:     logger,
	}
	pool.run(ctx)
	return nil
}

// workerBackends wires every optional backend that is configured.
func workerBackends(cfg *config.Config, logger *logrus.Logger, awsCfg aws.Config, publisher *repositories.AWSSQSClient) ([]services.WorkerOption, error) {
	var opts []services.WorkerOption

	if cfg.OutputQueueURL != "" {
		opts = append(opts, services.WithResultPublisher(publisher, cfg.OutputQueueURL))
	}
	if cfg.RedisHost != "" {
		opts = append(opts, services.WithStateCache(repositories.NewRedisClient(cfg.RedisHost, cfg.RedisPort), cfg.StateCacheTTL))
	}
	if cfg.DatabaseURL != "" {
		db, err := repositories.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithSnapshotRepository(repositories.NewDBRepository(db, cfg.DBBatchSize)))
	}
	if cfg.DynamoDBTable != "" {
		status := repositories.NewDynamoDBClient(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)
		opts = append(opts, services.WithJobStatusRepository(status))
	}
	if cfg.OpenSearchURL != "" {
		client, err := opensearch.NewClient(opensearch.Config{Addresses: []string{cfg.OpenSearchURL}})
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithSearchIndexer(repositories.NewOpenSearchRepository(client, cfg.OpenSearchIdx)))
	}
	if cfg.SnapshotBucket != "" {
		store := repositories.NewS3Repository(repositories.NewS3Client(awsCfg))
		opts = append(opts, services.WithSnapshotStore(store, cfg.SnapshotBucket))
	}

	return opts, nil
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
