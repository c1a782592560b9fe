package mysql

import (
	"errors"
	"fmt"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/burmanm/composer-client/pkg/connstring"
	"github.com/burmanm/composer-client/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/kubectl/pkg/cmd/exec"
)

var (
	mysqlExample = `
	# open a mysql shell against the Airflow database
	%[1]s mysql

	# run a single statement, flags after -- belong to mysql
	%[1]s mysql -- -e "SELECT 1"
`
)

const (
	defaultMySQLPort = "3306"
	defaultLocalPort = 3306
)

type options struct {
	genericclioptions.IOStreams
	session     *airflow.Session
	execOptions *exec.ExecOptions
	args        []string
}

func newOptions(streams genericclioptions.IOStreams) *options {
	return &options{
		IOStreams: streams,
	}
}

// NewCmd provides a cobra command wrapping mysql options
func NewCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := newOptions(streams)

	cmd := &cobra.Command{
		Use:          "mysql [flags] [-- mysql-args]",
		Short:        "open an interactive MySQL client inside the worker pod",
		Example:      fmt.Sprintf(mysqlExample, "composerctl"),
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

	// Leave flags after the first argument to the wrapped mysql client
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// Complete resolves the worker pod and prepares the in-pod mysql invocation
func (c *options) Complete(cmd *cobra.Command, args []string) error {
	c.args = args

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

	conn, err := airflow.DatabaseConnection(session.RESTConfig, namespace, worker.Name)
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
	execOptions.Command = mysqlCommand(conn, c.args)
	c.execOptions = execOptions

	pterm.Info.Printfln("Connecting to database %s on %s", conn.Database, conn.Host)

	return nil
}

// Validate ensures that all required arguments and flag values are provided
func (c *options) Validate() error {
	return nil
}

// Run opens the MySQL client session inside the worker pod
func (c *options) Run() error {
	return c.execOptions.Run()
}

func (c *options) close() {
	if c.session != nil {
		c.session.Close()
	}
}

// mysqlCommand builds the client argv ran inside the worker pod. The
// database name has to stay last, mysql stops option parsing there.
func mysqlCommand(conn connstring.ConnectionString, extra []string) []string {
	command := []string{
		"mysql",
		"--host=" + conn.Host,
		"--port=" + conn.PortOr(defaultMySQLPort),
		"--user=" + conn.User,
	}
	if conn.Password != "" {
		command = append(command, "--password="+conn.Password)
	}
	command = append(command, extra...)
	command = append(command, conn.Database)

	return command
}
