package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// defaultRevision is the development branch as seen through the remote.
const defaultRevision = "origin/develop"

// defaultExcludePatterns skips lock files: anything ending in ".lock" and
// package-lock.json at any depth.
func defaultExcludePatterns() []string {
	return []string{`\.lock$`, `(^|/)package-lock\.json$`}
}

// Viper keys. Flags use dashes, keys and env vars use underscores.
const (
	keyRepo       = "repo"
	keyRevision   = "revision"
	keyExclude    = "exclude"
	keyNoDefaults = "no_default_excludes"
	keyIgnoreFile = "ignore_file"
	keyThreads    = "threads"
	keyStrict     = "strict"
	keyFormat     = "format"
	keyByDir      = "by_dir"
	keyClipboard  = "clipboard"
	keyLogLevel   = "log_level"
)

// Config is everything one run needs. It is built once per invocation and
// passed down; nothing reads process-wide defaults after this point.
type Config struct {
	RepoPath        string
	Revision        string
	ExcludePatterns []string
	// NoDefaultExcludes drops the built-in patterns when no explicit
	// exclude set was given.
	NoDefaultExcludes bool
	IgnoreFile        string
	Threads           int
	Strict            bool
	Format            string
	ByDir             bool
	Clipboard         bool
	LogLevel          string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RepoPath:        ".",
		Revision:        defaultRevision,
		ExcludePatterns: defaultExcludePatterns(),
		Format:          formatText,
		LogLevel:        "warn",
	}
}

// flagKeys maps flag names to their viper keys.
var flagKeys = map[string]string{
	"repo":                keyRepo,
	"revision":            keyRevision,
	"exclude":             keyExclude,
	"no-default-excludes": keyNoDefaults,
	"ignore-file":         keyIgnoreFile,
	"threads":             keyThreads,
	"strict":              keyStrict,
	"format":              keyFormat,
	"by-dir":              keyByDir,
	"clipboard":           keyClipboard,
	"log-level":           keyLogLevel,
}

// loadConfig resolves the run configuration with the precedence
// defaults < config file < REVLOC_* environment < flags. A positional
// revision argument counts as the --revision flag.
func loadConfig(flags *pflag.FlagSet, args []string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault(keyRepo, def.RepoPath)
	v.SetDefault(keyRevision, def.Revision)
	v.SetDefault(keyThreads, def.Threads)
	v.SetDefault(keyFormat, def.Format)
	v.SetDefault(keyLogLevel, def.LogLevel)

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfgFile, _ := flags.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "revloc"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("REVLOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		RepoPath:          v.GetString(keyRepo),
		Revision:          v.GetString(keyRevision),
		ExcludePatterns:   excludePatterns(v),
		NoDefaultExcludes: v.GetBool(keyNoDefaults),
		IgnoreFile:        v.GetString(keyIgnoreFile),
		Threads:           v.GetInt(keyThreads),
		Strict:            v.GetBool(keyStrict),
		Format:            strings.ToLower(v.GetString(keyFormat)),
		ByDir:             v.GetBool(keyByDir),
		Clipboard:         v.GetBool(keyClipboard),
		LogLevel:          v.GetString(keyLogLevel),
	}
	if len(args) > 0 && !flags.Changed("revision") {
		cfg.Revision = args[0]
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// excludePatterns resolves the exclusion set. Any explicit value, whether
// from --exclude, REVLOC_EXCLUDE or the config file, replaces the built-in
// patterns. The exclude key has no viper default so that IsSet only reports
// explicit values.
func excludePatterns(v *viper.Viper) []string {
	if !v.IsSet(keyExclude) {
		if v.GetBool(keyNoDefaults) {
			return []string{}
		}
		return defaultExcludePatterns()
	}
	// Environment values and toml strings arrive as a single string.
	// Regexes may contain spaces and commas, so split on newlines only.
	if s, ok := v.Get(keyExclude).(string); ok {
		return splitPatternLines(s)
	}
	return v.GetStringSlice(keyExclude)
}

// splitPatternLines returns one pattern per non-blank line of s. A blank
// line would compile to a regex that matches every path, so it is dropped.
func splitPatternLines(s string) []string {
	patterns := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// validate rejects settings that would otherwise fail halfway through a run.
// Exclude patterns are compiled later, by NewMatcher.
func (c Config) validate() error {
	if strings.TrimSpace(c.Revision) == "" {
		return errors.New("revision must not be empty")
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	if _, err := newReporter(c.Format); err != nil {
		return err
	}
	if !validLogLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level: %s. Use debug, info, warn or error", c.LogLevel)
	}
	return nil
}
