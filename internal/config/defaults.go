package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultWorkDir                = "~/.local/share/splice/work"
	defaultLogDir                 = "~/.local/share/splice/logs"
	defaultProbeTimeoutSeconds    = 10
	defaultPreviewMaxAgeHours     = 24
	defaultPreviewMaxGiB          = 20
	defaultPreviewDownscaleFactor = 0.5
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Encoder: Encoder{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
			ProbeTimeout:  defaultProbeTimeoutSeconds,
		},
		Preview: Preview{
			CacheDir:        defaultPreviewCacheDir(),
			MaxAgeHours:     defaultPreviewMaxAgeHours,
			MaxGiB:          defaultPreviewMaxGiB,
			DownscaleFactor: defaultPreviewDownscaleFactor,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultPreviewCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "splice", "previews")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/splice/previews"
	}
	return filepath.Join(home, ".cache", "splice", "previews")
}
