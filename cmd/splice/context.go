package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	"splice/internal/config"
	"splice/internal/history"
	"splice/internal/logging"
	"splice/internal/merge"
	"splice/internal/previewcache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			FilePath: filepath.Join(cfg.Paths.LogDir, "splice.log"),
		})
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// fileLogger returns a logger that writes only to the log file, keeping the
// terminal free for progress rendering.
func (c *commandContext) fileLogger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   "json",
		Writer:   discardWriter{},
		FilePath: filepath.Join(cfg.Paths.LogDir, "splice.log"),
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// cacheManager builds the preview cache manager from configuration. A nil
// manager (unset cache dir) disables caching without erroring.
func (c *commandContext) cacheManager(logger *slog.Logger) (*previewcache.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return previewcache.NewManager(cfg.Preview.CacheDir, cfg.Preview.MaxGiB, logger), nil
}

// openHistory connects to the job-history database when recording is
// enabled. Callers own the returned store and must Close it.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath())
}

// newOrchestrator wires a merge orchestrator from configuration plus the
// collaborators the command already opened.
func (c *commandContext) newOrchestrator(logger *slog.Logger, cache *previewcache.Manager, store *history.Store) (*merge.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return merge.NewOrchestrator(merge.Options{
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
		WorkDir:       cfg.Paths.WorkDir,
		ProbeTimeout:  cfg.ProbeTimeout(),
		MergeTimeout:  cfg.MergeTimeout(),
		Cache:         cache,
		History:       store,
		Logger:        logger,
	}), nil
}
