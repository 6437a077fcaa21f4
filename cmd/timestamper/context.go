package main

import (
	"github.com/derdritte/timestamper/internal/config"
	"github.com/derdritte/timestamper/internal/logger"
)

// commandContext lazily loads configuration and builds the logger once,
// shared by all subcommands.
type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	cfg *config.Config
	log *logger.Logger
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

// ensure loads config and logger on first use. Flag overrides beat the
// file and environment.
func (c *commandContext) ensure() (config.Config, *logger.Logger, error) {
	if c.cfg != nil {
		return *c.cfg, c.log, nil
	}

	cfg, err := config.Load(*c.configFlag)
	if err != nil {
		return config.Config{}, nil, err
	}
	if *c.logLevelFlag != "" {
		cfg.Logging.Level = *c.logLevelFlag
	}
	if *c.logFormatFlag != "" {
		cfg.Logging.Format = *c.logFormatFlag
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	c.cfg = &cfg
	c.log = logger.New(logger.Config{
		Format: cfg.Logging.Format,
		Level:  logger.ParseLevel(cfg.Logging.Level),
	})
	return cfg, c.log, nil
}
