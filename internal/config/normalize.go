package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEncoder(); err != nil {
		return err
	}
	if err := c.normalizePreview(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoder() error {
	c.Encoder.FFmpegBinary = strings.TrimSpace(c.Encoder.FFmpegBinary)
	if c.Encoder.FFmpegBinary == "" {
		if value, ok := os.LookupEnv("SPLICE_FFMPEG"); ok {
			c.Encoder.FFmpegBinary = strings.TrimSpace(value)
		}
	}
	if c.Encoder.FFmpegBinary == "" {
		c.Encoder.FFmpegBinary = "ffmpeg"
	}
	c.Encoder.FFprobeBinary = strings.TrimSpace(c.Encoder.FFprobeBinary)
	if c.Encoder.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("SPLICE_FFPROBE"); ok {
			c.Encoder.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	if c.Encoder.FFprobeBinary == "" {
		c.Encoder.FFprobeBinary = "ffprobe"
	}
	if c.Encoder.ProbeTimeout <= 0 {
		c.Encoder.ProbeTimeout = defaultProbeTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizePreview() error {
	var err error
	if strings.TrimSpace(c.Preview.CacheDir) == "" {
		c.Preview.CacheDir = defaultPreviewCacheDir()
	}
	if c.Preview.CacheDir, err = expandPath(c.Preview.CacheDir); err != nil {
		return fmt.Errorf("preview.cache_dir: %w", err)
	}
	if c.Preview.MaxAgeHours <= 0 {
		c.Preview.MaxAgeHours = defaultPreviewMaxAgeHours
	}
	if c.Preview.DownscaleFactor == 0 {
		c.Preview.DownscaleFactor = defaultPreviewDownscaleFactor
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	path := strings.TrimSpace(c.History.Path)
	if path == "" {
		c.History.Path = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
