package config

import "flag"

// Flags holds the command-line overrides shared by diftool subcommands.
type Flags struct {
	Config  string
	Version string
	Split   string
	MBOnly  bool
	Debug   bool
	LogFile string
}

// RegisterFlags adds the config flags to fs. Parse fs before calling Load.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.StringVar(&f.Version, "version", "", "Target engine: mbg, tge, tgea, t3d")
	fs.StringVar(&f.Split, "split", "", "BSP split method: fast, exhaustive, none")
	fs.BoolVar(&f.MBOnly, "mb-only", false, "Write placeholder hull data (Marble Blast only)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Version != "" {
		cfg.Build.Version = f.Version
	}
	if f.Split != "" {
		cfg.Build.SplitMethod = f.Split
	}
	if f.MBOnly {
		cfg.Build.MBOnly = true
	}
}
