package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"glustermon/internal/arp"
	"glustermon/internal/config"
	"glustermon/internal/logger"
	"glustermon/internal/remote"
	"glustermon/internal/xosan"
)

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	service *xosan.Service
}

// setup loads configuration and wires the service
func setup() (*app, error) {
	cfg, loaded, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Debug:  cfg.Debug,
		Output: cfg.LogOutput,
	}); err != nil {
		return nil, fmt.Errorf("invalid log configuration: %w", err)
	}
	log := logger.GetLogger()
	if !loaded {
		log.Debug().Str("file", configFile).Msg("config file not found, using defaults")
	}

	executor := remote.NewSSHExecutor(cfg.SSHBinary, cfg.SSHUser, cfg.SSHOptions, logger.WithComponent("remote"))

	return &app{
		cfg:     cfg,
		logger:  log,
		service: xosan.NewService(executor, neighborSource(cfg), logger.WithComponent("xosan")),
	}, nil
}

func neighborSource(cfg *config.Config) arp.Source {
	if cfg.ARPSource == config.ARPSourceCommand {
		return arp.NewCommandSource(cfg.ARPCommand)
	}
	return arp.NewProcSource(cfg.ARPFile)
}
