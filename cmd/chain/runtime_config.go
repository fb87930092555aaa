package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/danmuck/dps_ledger/src/ledger"
)

type RenderFormat string

const (
	FormatText  RenderFormat = "text"
	FormatTable RenderFormat = "table"
	FormatTOML  RenderFormat = "toml"
)

const defaultConfigPath = "./chain.config.toml"

type RuntimeConfig struct {
	ConfigPath         string
	ConfigPathProvided bool
	Digest             string
	Format             RenderFormat
}

func defaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ConfigPath: defaultConfigPath,
		Digest:     "",
		Format:     FormatText,
	}
}

var defaultRuntimeConfig = defaultConfig()

const CONFIG_FLAG = "--config"
const DIGEST_FLAG = "--digest"
const FORMAT_FLAG = "--format"

func parseFormat(raw string) (RenderFormat, error) {
	switch RenderFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText:
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported %s value %q", FORMAT_FLAG, raw)
	}
}

// flagValue returns the value of flag at args[i], either inline (--flag=v)
// or from the next argument, and the index of the last consumed argument.
func flagValue(args []string, i int, flag string) (string, int, bool, error) {
	arg := args[i]
	if arg == flag {
		if i+1 >= len(args) {
			return "", i, true, fmt.Errorf("missing value after %q", flag)
		}
		return strings.TrimSpace(args[i+1]), i + 1, true, nil
	}
	if after, ok := strings.CutPrefix(arg, flag+"="); ok {
		return strings.TrimSpace(after), i, true, nil
	}
	return "", i, false, nil
}

func parseCLI(args []string, cfg RuntimeConfig) (RuntimeConfig, error) {
	runtimeCfg := cfg

	for i := 0; i < len(args); i++ {
		value, next, matched, err := flagValue(args, i, CONFIG_FLAG)
		if err != nil {
			return runtimeCfg, err
		}
		if matched {
			if value == "" {
				return runtimeCfg, fmt.Errorf("%s requires a path", CONFIG_FLAG)
			}
			runtimeCfg.ConfigPath = value
			runtimeCfg.ConfigPathProvided = true
			i = next
			continue
		}

		value, next, matched, err = flagValue(args, i, DIGEST_FLAG)
		if err != nil {
			return runtimeCfg, err
		}
		if matched {
			if _, err := ledger.DigestByName(value); err != nil || value == "" {
				return runtimeCfg, fmt.Errorf("invalid %s value %q", DIGEST_FLAG, value)
			}
			runtimeCfg.Digest = strings.ToLower(value)
			i = next
			continue
		}

		value, next, matched, err = flagValue(args, i, FORMAT_FLAG)
		if err != nil {
			return runtimeCfg, err
		}
		if matched {
			format, err := parseFormat(value)
			if err != nil {
				return runtimeCfg, err
			}
			runtimeCfg.Format = format
			i = next
			continue
		}

		return runtimeCfg, fmt.Errorf("unsupported argument %q", args[i])
	}

	return runtimeCfg, nil
}

// resolveLedgerConfig loads the TOML ledger config, if any, and applies CLI
// overrides on top. A missing default config file is not an error; a missing
// file named with --config is.
func resolveLedgerConfig(cfg RuntimeConfig) (ledger.Config, error) {
	ledgerCfg := ledger.DefaultConfig()

	if cfg.ConfigPath != "" {
		loaded, err := ledger.LoadConfig(cfg.ConfigPath)
		switch {
		case err == nil:
			ledgerCfg = loaded
		case !cfg.ConfigPathProvided && errors.Is(err, fs.ErrNotExist):
		default:
			return ledgerCfg, err
		}
	}

	if cfg.Digest != "" {
		ledgerCfg.Digest = cfg.Digest
	}
	return ledgerCfg, nil
}

func printUsage(w io.Writer, cfg RuntimeConfig) {
	fmt.Fprintf(w, "Usage: go run ./cmd/chain [%s PATH] [%s xxhash|blake2b] [%s text|table|toml]\n",
		CONFIG_FLAG,
		DIGEST_FLAG,
		FORMAT_FLAG,
	)
	fmt.Fprintf(w, "Ledger config is read from %s when present.\n", cfg.ConfigPath)
	fmt.Fprintf(w, "Rendering defaults to %q.\n", cfg.Format)
	fmt.Fprintln(w, "Type text to append a block; :print, :table, :toml, :verify, :help; exit to quit.")
}
