package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagStrict   = flag.Bool("strict", false, "Treat integrity mismatches as errors")
	flagEncoding = flag.String("encoding", "", "Input charset (utf-8, latin1, windows-1252)")
	flagFormat   = flag.String("format", "", "Dump format (yaml, json)")
	flagNoColor  = flag.Bool("no-color", false, "Disable colored output")
	flagWorkers  = flag.Int("workers", 0, "Files parsed concurrently by check")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags following the subcommand name.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagStrict {
		cfg.Parse.Strict = true
	}
	if *flagEncoding != "" {
		cfg.Parse.Encoding = *flagEncoding
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagNoColor {
		cfg.Output.Color = false
	}
	if *flagWorkers > 0 {
		cfg.Parse.Workers = *flagWorkers
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
