package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validatePreview(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.FFmpegBinary == "" {
		return errors.New("encoder.ffmpeg_binary must be set")
	}
	if c.Encoder.FFprobeBinary == "" {
		return errors.New("encoder.ffprobe_binary must be set")
	}
	if c.Encoder.ProbeTimeout <= 0 {
		return fmt.Errorf("encoder.probe_timeout must be positive, got %d", c.Encoder.ProbeTimeout)
	}
	if c.Encoder.MergeTimeout < 0 {
		return fmt.Errorf("encoder.merge_timeout must not be negative, got %d", c.Encoder.MergeTimeout)
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.CacheDir == "" {
		return errors.New("preview.cache_dir must be set")
	}
	if c.Preview.MaxAgeHours <= 0 {
		return fmt.Errorf("preview.max_age_hours must be positive, got %d", c.Preview.MaxAgeHours)
	}
	if c.Preview.MaxGiB < 0 {
		return fmt.Errorf("preview.max_gib must not be negative, got %d", c.Preview.MaxGiB)
	}
	if c.Preview.DownscaleFactor <= 0 || c.Preview.DownscaleFactor > 1 {
		return fmt.Errorf("preview.downscale_factor must be in (0, 1], got %g", c.Preview.DownscaleFactor)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
