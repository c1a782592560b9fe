package main

import (
	"os"

	"github.com/burmanm/composer-client/cmd/composerctl/composer"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

func main() {
	flags := pflag.NewFlagSet("composerctl", pflag.ExitOnError)
	pflag.CommandLine = flags

	// Resolution chatter goes to stderr, verb output owns stdout.
	pterm.SetDefaultOutput(os.Stderr)

	root := composer.NewCmd(genericclioptions.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
