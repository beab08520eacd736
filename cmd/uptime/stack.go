package main

import (
	"github.com/sirupsen/logrus"

	"github.com/lex00/uptime-aws-go/internal/config"
	"github.com/lex00/uptime-aws-go/internal/stack"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	region      string
	environment string
	verbose     bool

	logger *logrus.Logger
}

// loadConfig reads the configuration file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Override(o.region, o.environment)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"config":      o.configPath,
		"region":      cfg.Region,
		"environment": cfg.Environment,
		"handler":     cfg.Handler,
	}).Debug("loaded configuration")
	return cfg, nil
}

// loadStack declares the stack from the configuration file.
func (o *rootOptions) loadStack() (*stack.Stack, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return stack.Declare(cfg)
}
