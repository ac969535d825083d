package cmd

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"enricher-worker/config"
	"enricher-worker/logging"
	"enricher-worker/repositories"
	"enricher-worker/services"
)

// app holds what every command needs: configuration, a logger and the
// enricher wired to the live APIs.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	enricher *services.EnricherService
}

func newApp() (*app, error) {
	bootLogger := logging.NewLogger()
	config.LoadEnv(bootLogger)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if tokenSymbol != "" {
		cfg.TokenSymbol = strings.ToUpper(tokenSymbol)
	}

	logger := logging.NewLoggerWithService(cfg.ServiceName)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	scotFetcher := repositories.NewJSONFetcher(httpClient, logger, "scot")
	engineFetcher := repositories.NewJSONFetcher(httpClient, logger, "engine")

	enricher := services.NewEnricherService(
		services.WithContentAPI(repositories.NewSteemClient(httpClient, cfg.SteemAPIURL)),
		services.WithCurationAPI(repositories.NewScotRepository(scotFetcher, cfg.ScotAPIURL, cfg.TokenSymbol, logger)),
		services.WithTokenAPI(repositories.NewEngineRepository(httpClient, cfg.EngineRPCURL, cfg.EngineAPIURL, cfg.TokenSymbol, engineFetcher, logger)),
		services.WithTokenSymbol(cfg.TokenSymbol),
		services.WithLogger(logger),
	)

	return &app{cfg: cfg, logger: logger, enricher: enricher}, nil
}
