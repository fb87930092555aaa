package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "SMPLOG_CONFIG"

var candidates = []string{
	"./smplog.config.toml",
	"./local/smplog.config.toml",
}

// Load returns the logging configuration named by SMPLOG_CONFIG, then the
// first readable candidate file, otherwise defaults.
func Load() logs.Config {
	return LoadFrom(append([]string{os.Getenv(envConfigPath)}, candidates...)...)
}

// LoadFrom returns the first config that decodes from paths. Empty paths are skipped.
func LoadFrom(paths ...string) logs.Config {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}
	return logs.DefaultConfig()
}
