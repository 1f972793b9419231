package cli

import (
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/logger"
)

// Session is the resolved config plus an API client, shared by the commands
// that talk to the server.
type Session struct {
	Config     *config.Config
	ConfigPath string // empty when running on defaults and environment only
	Client     *api.Client
}

// SessionOptions configures session setup.
type SessionOptions struct {
	Logger logger.Logger

	// ClientOptions are applied after the config-derived ones.
	ClientOptions []api.Option
}

// loadConfig resolves and validates the config. requireServer makes a
// missing server_url an error.
func loadConfig(requireServer bool) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, "", err
	}

	var opts []config.ValidationOption
	if requireServer {
		opts = append(opts, config.RequireServer())
	}
	if err := config.Validate(cfg, opts...); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// NewSession loads the config and builds a client for the configured server.
func NewSession(opts SessionOptions) (*Session, error) {
	cfg, path, err := loadConfig(true)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = commandLogger()
	}

	return &Session{
		Config:     cfg,
		ConfigPath: path,
		Client:     newClient(cfg, log, opts.ClientOptions...),
	}, nil
}

// commandLogger is the logger for one-shot commands: stderr with --verbose,
// silent otherwise.
func commandLogger() logger.Logger {
	if Verbose() {
		return logger.Default()
	}
	return logger.Noop()
}

// newClient builds an API client from the request settings in cfg.
func newClient(cfg *config.Config, log logger.Logger, extra ...api.Option) *api.Client {
	opts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		api.WithHistoryPath(cfg.API.HistoryPath),
		api.WithLogger(logger.Named(log, "api")),
	}
	return api.NewClient(cfg.ServerURL, append(opts, extra...)...)
}
