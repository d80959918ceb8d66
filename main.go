package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// version is the application version, set via ldflags.
var version = "dev"

// newRootCmd builds the revloc command. Flag values are read through
// loadConfig so that config files and REVLOC_* variables can supply them too.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revloc [REVISION]",
		Short: "Count lines of code in every tracked file at a git revision.",
		Long: `revloc reads a revision straight from the git object database, drops
paths matching the exclude patterns, and reports line counts per file,
per extension and in total. Binary or unreadable files are skipped.

REVISION defaults to ` + defaultRevision + `.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), args)
			if err != nil {
				return err
			}
			return run(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default is $HOME/.config/revloc/config.toml)")

	// Source
	flags.StringP("repo", "r", ".", "Repository path, or a scheme:// or git@ URL to clone into memory")
	flags.StringP("revision", "R", defaultRevision, "Revision to scan (branch, tag, commit, remote ref)")

	// Filtering
	flags.StringArrayP("exclude", "e", nil, "Regular expression of paths to exclude (repeatable, replaces the defaults; an empty pattern matches every path)")
	flags.Bool("no-default-excludes", false, "Drop the built-in lock file patterns when no --exclude is given")
	flags.String("ignore-file", "", "File of gitignore-style patterns to exclude as well")

	// Processing
	flags.IntP("threads", "t", 0, "Number of workers for fetching and counting (0 for auto)")
	flags.Bool("strict", false, "Report files skipped as binary or unreadable on stderr")

	// Output
	flags.StringP("format", "o", formatText, "Output format: text, json or yaml")
	flags.Bool("by-dir", false, "Also report totals per top-level directory")
	flags.BoolP("clipboard", "c", false, "Copy the report to the clipboard instead of printing it")
	flags.String("log-level", "warn", "Log level on stderr: debug, info, warn or error")

	return cmd
}

// run executes one scan. Configuration and revision errors are returned
// before anything is written to stdout.
func run(cfg Config, stdout, stderr io.Writer) error {
	log := newConsoleLogger(stderr, cfg.LogLevel)

	reporter, err := newReporter(cfg.Format)
	if err != nil {
		return err
	}

	matcher, err := NewMatcher(cfg.ExcludePatterns)
	if err != nil {
		return err
	}
	if cfg.IgnoreFile != "" {
		if err := matcher.WithIgnoreFile(cfg.IgnoreFile); err != nil {
			return err
		}
	}

	log.Infof("Opening repository %s", cfg.RepoPath)
	store, err := OpenGitStore(cfg.RepoPath, log.progress())
	if err != nil {
		return err
	}

	log.Infof("Scanning %s", cfg.Revision)
	summary, err := NewPipeline(store, store, matcher, cfg.Threads, log).Run(cfg.Revision)
	if err != nil {
		return err
	}

	var out strings.Builder
	if err := reporter.Render(&out, summary, ReportOptions{ByDir: cfg.ByDir, Strict: cfg.Strict}); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if cfg.Strict {
		writeSkipWarning(stderr, summary.Skipped, isTerminal(stderr))
	}

	if cfg.Clipboard {
		if err := clipboard.WriteAll(out.String()); err != nil {
			log.Warnf("Error writing to clipboard: %v", err)
		} else {
			fmt.Fprintln(stderr, "Report copied to clipboard.")
			return nil
		}
	}

	_, err = io.WriteString(stdout, out.String())
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
