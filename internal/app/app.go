// Package app wires configuration, logging, the OFX client, the cache
// store, and the probe service into a runnable application.
package app

import (
	"fmt"
	"os"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/interfaces"
	"github.com/BarakBinyamin/ofxpostern/internal/ofx"
	"github.com/BarakBinyamin/ofxpostern/internal/services/probe"
	"github.com/BarakBinyamin/ofxpostern/internal/storage/cachefs"
)

// App holds all initialized services and clients.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Client       interfaces.OFXClient
	Cache        interfaces.CacheStore
	ProbeService *probe.Service
}

// Options adjusts app construction.
type Options struct {
	// ConfigPath overrides config file resolution. Empty means
	// OFXPOSTERN_CONFIG, then <data root>/config.toml.
	ConfigPath string

	// Debug forces debug-level logging regardless of configuration.
	Debug bool
}

// NewApp initializes configuration, logging, the OFX client, the cache
// store, and the probe service.
func NewApp(opts Options) (*App, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("OFXPOSTERN_CONFIG")
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.Debug {
		config.Logging.Level = "debug"
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	dataPath, err := config.DataPath()
	if err != nil {
		return nil, err
	}

	client := ofx.NewClient(
		ofx.WithLogger(logger),
		ofx.WithTimeout(config.Client.GetTimeout()),
		ofx.WithRateLimit(config.Client.RateLimit),
		ofx.WithUserAgent(config.Client.UserAgent),
	)

	cache := cachefs.NewStore(logger, dataPath)

	probeService := probe.NewService(client, cache, logger)

	if opts.Debug {
		common.PrintBanner(config, logger)
	}

	return &App{
		Config:       config,
		Logger:       logger,
		Client:       client,
		Cache:        cache,
		ProbeService: probeService,
	}, nil
}
