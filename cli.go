package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/metcalfc/wrr/internal/config"
	"github.com/metcalfc/wrr/internal/fetch"
	"github.com/metcalfc/wrr/internal/logger"
	"github.com/metcalfc/wrr/internal/playback"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds command-line values shared by both front ends.
type options struct {
	URL        string
	Rate       string
	ConfigPath string
	Verbose    bool
	LogFile    string
}

func parseOptions(name, help string, args []string) (*options, error) {
	opts := &options{}

	app := kingpin.New(name, help)
	app.Version(fmt.Sprintf("%s %s (commit: %s, built: %s)", name, version, commit, date))
	app.VersionFlag.Short('v')
	app.HelpFlag.Short('h')

	app.Arg("url", "Page or local document (.html, .epub, .md, .txt) to fetch at startup").StringVar(&opts.URL)
	app.Flag("wpm", "Initial words per minute").Short('w').Default(fmt.Sprint(playback.DefaultWPM)).StringVar(&opts.Rate)
	app.Flag("config", "Path to config file (default: $XDG_CONFIG_HOME/wrr/config.yaml)").StringVar(&opts.ConfigPath)
	app.Flag("verbose", "Enable verbose (DEBUG) logging").BoolVar(&opts.Verbose)
	app.Flag("logfile", "Path to log file (default: $XDG_STATE_HOME/wrr/wrr.log)").StringVar(&opts.LogFile)

	if _, err := app.Parse(args); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	return opts, nil
}

// setup loads configuration and initializes logging. The returned closer
// flushes the log file.
func setup(opts *options) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	logConfig := logger.Config{
		Output: cfg.LogFile(),
		Level:  cfg.Log.Level,
	}
	if opts.Verbose {
		logConfig.Level = "debug"
	}
	if opts.LogFile != "" {
		logConfig.Output = opts.LogFile
	}
	closer, err := logger.Init(logConfig)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize logger")
	}

	zlog.Info().Str("version", version).Str("url", opts.URL).Msg("Starting")
	return cfg, closer, nil
}

func newFetcher(cfg *config.Config) *fetch.Fetcher {
	return fetch.New(fetch.Config{
		Timeout:      cfg.HTTP.Timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})
}

// correctedRate returns the text the rate field should hold once playback has
// started at wpm. Valid input is kept as typed.
func correctedRate(input string, wpm int) string {
	if _, ok := playback.ParseRate(input); ok {
		return input
	}
	return strconv.Itoa(wpm)
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
