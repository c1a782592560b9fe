package run

import (
	"errors"
	"fmt"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/burmanm/composer-client/pkg/util"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/kubectl/pkg/cmd/exec"
)

var (
	runExample = `
	# run a command inside the Airflow worker
	%[1]s run airflow version

	# flags of the wrapped command go after --
	%[1]s run -- airflow list_dags --report
`
	errNoCommandDefined = fmt.Errorf("run requires a command to execute")
)

type options struct {
	genericclioptions.IOStreams
	session     *airflow.Session
	execOptions *exec.ExecOptions
	command     []string
}

func newOptions(streams genericclioptions.IOStreams) *options {
	return &options{
		IOStreams: streams,
	}
}

// NewCmd provides a cobra command wrapping run options
func NewCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := newOptions(streams)

	cmd := &cobra.Command{
		Use:          "run [command] [flags]",
		Short:        "run a command inside the Airflow worker",
		Example:      fmt.Sprintf(runExample, "composerctl"),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			defer o.close()
			if err := o.Complete(c, args); err != nil {
				if errors.Is(err, airflow.ErrNotConfigured) {
					fmt.Fprint(o.ErrOut, c.UsageString())
				}
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}

			return nil
		},
	}

	// Leave flags after the first argument to the wrapped command
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// Complete resolves the worker pod and prepares the exec into it
func (c *options) Complete(cmd *cobra.Command, args []string) error {
	c.command = args
	if len(c.command) == 0 {
		return errNoCommandDefined
	}

	cfg, err := airflow.ConfigFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	session, err := airflow.NewSession(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.session = session

	namespace, worker, err := session.Worker()
	if err != nil {
		return err
	}

	execOptions, err := util.GetExecOptions(c.IOStreams, session.RESTConfig, namespace, airflow.WorkerContainer)
	if err != nil {
		return err
	}
	execOptions.PodName = worker.Name
	execOptions.Stdin = true
	execOptions.TTY = true
	execOptions.Command = c.command
	c.execOptions = execOptions

	return nil
}

// Validate ensures that all required arguments and flag values are provided
func (c *options) Validate() error {
	return nil
}

// Run executes the command on the worker pod
func (c *options) Run() error {
	return c.execOptions.Run()
}

func (c *options) close() {
	if c.session != nil {
		c.session.Close()
	}
}
