package composer

import (
	"fmt"

	"github.com/burmanm/composer-client/cmd/composerctl/info"
	"github.com/burmanm/composer-client/cmd/composerctl/mysql"
	"github.com/burmanm/composer-client/cmd/composerctl/run"
	"github.com/burmanm/composer-client/cmd/composerctl/shell"
	"github.com/burmanm/composer-client/pkg/cache"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

const (
	cacheKeyName     = "composer-name"
	cacheKeyLocation = "composer-location"
)

var errNoCommand = fmt.Errorf("subcommand is required")

type ClientOptions struct {
	genericclioptions.IOStreams
	composerName     string
	composerLocation string
	project          string
	verbose          bool
}

// NewClientOptions provides an instance of ClientOptions with default values
func NewClientOptions(streams genericclioptions.IOStreams) *ClientOptions {
	return &ClientOptions{
		IOStreams: streams,
	}
}

// NewCmd provides a cobra command wrapping ClientOptions
func NewCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := NewClientOptions(streams)

	cmd := &cobra.Command{
		Use:   "composerctl [subcommand] [flags]",
		Short: "work against a Cloud Composer environment from the command line",
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return o.setup(c.Root().PersistentFlags())
		},
		RunE: func(c *cobra.Command, args []string) error {
			return errNoCommand
		},
	}

	fl := cmd.PersistentFlags()
	fl.StringVarP(&o.composerName, "composer-name", "C", "", "name of the Composer environment")
	fl.StringVarP(&o.composerLocation, "composer-location", "L", "", "Compute region the environment runs in")
	fl.StringVar(&o.project, "project", "", "Google Cloud project of the environment, defaults to the gcloud configuration")
	fl.BoolVarP(&o.verbose, "verbose", "v", false, "print verbose output")

	// Add subcommands
	cmd.AddCommand(shell.NewCmd(streams))
	cmd.AddCommand(info.NewCmd(streams))
	cmd.AddCommand(run.NewCmd(streams))
	cmd.AddCommand(mysql.NewCmd(streams))
	cmd.AddCommand(mysql.NewTunnelCmd(streams))
	cmd.AddCommand(mysql.NewDumpCmd(streams))

	return cmd
}

// setup runs before every verb. It turns on debug output when asked to and
// syncs the environment flags with the configuration cache.
func (o *ClientOptions) setup(flags *pflag.FlagSet) error {
	if o.verbose {
		pterm.EnableDebugMessages()
	}

	store, err := cache.New()
	if err != nil {
		pterm.Debug.Printfln("Configuration cache unavailable: %v", err)
		return nil
	}

	syncFlag(flags, "composer-name", cacheKeyName, store)
	syncFlag(flags, "composer-location", cacheKeyLocation, store)

	return nil
}

// syncFlag persists a flag the user set and fills an unset flag from the
// cache, so the next invocation can leave it out. Cache problems never fail
// the invocation.
func syncFlag(flags *pflag.FlagSet, name, key string, store *cache.Store) {
	if flags.Changed(name) {
		value, err := flags.GetString(name)
		if err != nil || value == "" {
			return
		}
		if err := store.Save(key, value); err != nil {
			pterm.Debug.Printfln("Could not cache %s: %v", name, err)
		}
		return
	}

	if cached := store.Load(key); cached != "" {
		if err := flags.Set(name, cached); err == nil {
			pterm.Debug.Printfln("Using cached %s %s", name, cached)
		}
	}
}
