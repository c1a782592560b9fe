package airflow

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ErrNotConfigured marks an invocation that cannot identify a Composer
// environment. Callers print usage alongside it.
var ErrNotConfigured = fmt.Errorf("no composer environment set, use --composer-name and --composer-location (cached for later invocations)")

// Config is the working configuration threaded through every verb.
type Config struct {
	ComposerName     string
	ComposerLocation string
	Project          string
	Verbose          bool
}

// Validate ensures the configuration identifies a Composer environment.
func (c Config) Validate() error {
	if c.ComposerName == "" || c.ComposerLocation == "" {
		return ErrNotConfigured
	}

	return nil
}

// ConfigFromFlags collects the persistent configuration flags the root
// command registers for every verb.
func ConfigFromFlags(flags *pflag.FlagSet) (Config, error) {
	name, err := flags.GetString("composer-name")
	if err != nil {
		return Config{}, err
	}

	location, err := flags.GetString("composer-location")
	if err != nil {
		return Config{}, err
	}

	project, err := flags.GetString("project")
	if err != nil {
		return Config{}, err
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return Config{}, err
	}

	return Config{
		ComposerName:     name,
		ComposerLocation: location,
		Project:          project,
		Verbose:          verbose,
	}, nil
}
