package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/minio/cli"

	"stopwatch/internal/core/model"
)

// Config holds command line overrides. Fields are filled from global flags by
// their flag tag; only flags given on the command line are recorded.
type Config struct {
	Resolution     string `flag:"resolution"`
	PollIntervalMS int    `flag:"poll-interval"`
	StorageBackend string `flag:"storage"`
	LogLevel       string `flag:"log-level"`
	NoJournal      bool   `flag:"no-journal"`

	DataDir string `flag:"data-dir"`
	NoColor bool   `flag:"no-color"`

	set map[string]bool
}

// Flags returns the global flags understood by LoadFromContext.
func Flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "resolution",
			Usage: "fraction shown after mm:ss (none, tenths, hundredths)",
		},
		cli.IntFlag{
			Name:  "poll-interval",
			Usage: "display refresh period in milliseconds (10-1000)",
		},
		cli.StringFlag{
			Name:  "storage",
			Usage: "snapshot backend (file, sqlite)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		cli.BoolFlag{
			Name:  "no-journal",
			Usage: "do not write the event journal",
		},
		cli.StringFlag{
			Name:  "data-dir",
			Usage: "directory holding the snapshot and journal",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored output",
		},
	}
}

// LoadFromContext reads the tagged global flags from c.
func LoadFromContext(c *cli.Context) *Config {
	config := &Config{set: map[string]bool{}}

	v2 := reflect.ValueOf(config).Elem()
	v := v2.Type()

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		tag := f.Tag.Get("flag")
		if tag == "" || !c.GlobalIsSet(tag) {
			continue
		}
		config.set[tag] = true

		dest := v2.FieldByName(f.Name)

		switch f.Type.Kind() {
		case reflect.Bool:
			dest.SetBool(c.GlobalBool(tag))
		case reflect.Int:
			dest.SetInt(int64(c.GlobalInt(tag)))
		case reflect.String:
			dest.SetString(c.GlobalString(tag))
		}
	}
	return config
}

// IsSet reports whether the flag named tag was given.
func (config *Config) IsSet(tag string) bool {
	return config.set[tag]
}

// Apply overlays the given flags on settings. Unlike the settings file, an
// invalid flag value is an error.
func (config *Config) Apply(settings model.Settings) (model.Settings, error) {
	if config.IsSet("resolution") {
		resolution, err := model.ParseResolution(config.Resolution)
		if err != nil {
			return settings, fmt.Errorf("--resolution: %w", err)
		}
		settings.Resolution = resolution
	}

	if config.IsSet("poll-interval") {
		interval := time.Duration(config.PollIntervalMS) * time.Millisecond
		if !model.ValidPollInterval(interval) {
			return settings, fmt.Errorf("--poll-interval: %dms out of range", config.PollIntervalMS)
		}
		settings.PollInterval = interval
	}

	if config.IsSet("storage") {
		backend, err := model.ParseStorageBackend(config.StorageBackend)
		if err != nil {
			return settings, fmt.Errorf("--storage: %w", err)
		}
		settings.StorageBackend = backend
	}

	if config.IsSet("log-level") {
		if !model.ValidLogLevel(config.LogLevel) {
			return settings, fmt.Errorf("--log-level: unknown level %q", config.LogLevel)
		}
		settings.LogLevel = config.LogLevel
	}

	if config.NoJournal {
		settings.JournalEnabled = false
	}

	return settings, nil
}
