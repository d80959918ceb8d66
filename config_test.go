package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseConfig runs args through the root command's flag set and loadConfig.
func parseConfig(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	return loadConfig(cmd.Flags(), cmd.Flags().Args())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "origin/develop", cfg.Revision)
	assert.Equal(t, []string{`\.lock$`, `(^|/)package-lock\.json$`}, cfg.ExcludePatterns)
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := parseConfig(t,
		"--repo", "/tmp/project",
		"-R", "v1.2.0",
		"-e", `\.svg$`,
		"-e", `^third_party/`,
		"--ignore-file", ".revlocignore",
		"-t", "4",
		"--strict",
		"-o", "YAML",
		"--by-dir",
		"--log-level", "debug",
	)
	require.NoError(t, err)

	assert.Equal(t, Config{
		RepoPath:        "/tmp/project",
		Revision:        "v1.2.0",
		ExcludePatterns: []string{`\.svg$`, `^third_party/`},
		IgnoreFile:      ".revlocignore",
		Threads:         4,
		Strict:          true,
		Format:          "yaml",
		ByDir:           true,
		LogLevel:        "debug",
	}, cfg)
}

func TestLoadConfigPositionalRevision(t *testing.T) {
	cfg, err := parseConfig(t, "origin/main")
	require.NoError(t, err)
	assert.Equal(t, "origin/main", cfg.Revision)

	cfg, err = parseConfig(t, "--revision", "HEAD", "origin/main")
	require.NoError(t, err)
	assert.Equal(t, "HEAD", cfg.Revision)
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `revision = "origin/main"
exclude = ['\.min\.js$']
threads = 3
by_dir = true
format = "json"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := parseConfig(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "origin/main", cfg.Revision)
	assert.Equal(t, []string{`\.min\.js$`}, cfg.ExcludePatterns)
	assert.Equal(t, 3, cfg.Threads)
	assert.True(t, cfg.ByDir)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv("REVLOC_REVISION", "origin/release")
	t.Setenv("REVLOC_THREADS", "6")
	cfg, err = parseConfig(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "origin/release", cfg.Revision)
	assert.Equal(t, 6, cfg.Threads)

	cfg, err = parseConfig(t, "--config", cfgPath, "--threads", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Threads)

	// An environment pattern is kept whole, spaces included.
	t.Setenv("REVLOC_EXCLUDE", "^my docs/")
	cfg, err = parseConfig(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"^my docs/"}, cfg.ExcludePatterns)

	cfg, err = parseConfig(t, "--config", cfgPath, "-e", `\.svg$`)
	require.NoError(t, err)
	assert.Equal(t, []string{`\.svg$`}, cfg.ExcludePatterns)
}

func TestLoadConfigExcludeFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single pattern with space", "^my docs/", []string{"^my docs/"}},
		{"comma stays in the pattern", `^a{1,3}/`, []string{`^a{1,3}/`}},
		{"one pattern per line", "^my docs/\n\\.svg$\r\n", []string{"^my docs/", `\.svg$`}},
		{"blank lines dropped", "\n  \n\\.lock$\n", []string{`\.lock$`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REVLOC_EXCLUDE", tt.value)
			cfg, err := parseConfig(t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ExcludePatterns)
		})
	}
}

func TestLoadConfigNoDefaultExcludes(t *testing.T) {
	cfg, err := parseConfig(t, "--no-default-excludes")
	require.NoError(t, err)
	assert.True(t, cfg.NoDefaultExcludes)
	assert.Empty(t, cfg.ExcludePatterns)

	cfg, err = parseConfig(t, "--no-default-excludes", "-e", `^vendor/`)
	require.NoError(t, err)
	assert.Equal(t, []string{`^vendor/`}, cfg.ExcludePatterns)

	t.Setenv("REVLOC_NO_DEFAULT_EXCLUDES", "true")
	cfg, err = parseConfig(t)
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludePatterns)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := parseConfig(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"--format", "csv"}, "csv"},
		{"negative threads", []string{"--threads", "-2"}, "threads"},
		{"unknown log level", []string{"--log-level", "loud"}, "loud"},
		{"empty revision", []string{"--revision", " "}, "revision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
