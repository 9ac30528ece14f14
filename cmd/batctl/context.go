package main

import (
	"sync"

	"bat-monitor-be/internal/config"
	"bat-monitor-be/internal/pkg/logger"
)

// commandContext lazily loads what subcommands share. Environment and .env
// are read once, on first use.
type commandContext struct {
	verbose *bool

	once   sync.Once
	config *config.Config
	logger logger.ILogger
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

func (c *commandContext) load() {
	c.once.Do(func() {
		c.config = config.Load()
		c.logger = logger.NewConsoleLogger(c.verbose != nil && *c.verbose)
	})
}

func (c *commandContext) cfg() *config.Config {
	c.load()
	return c.config
}

func (c *commandContext) log() logger.ILogger {
	c.load()
	return c.logger
}
