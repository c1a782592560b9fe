package mysql

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/burmanm/composer-client/pkg/connstring"
	"github.com/burmanm/composer-client/pkg/tunnel"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

var (
	dumpExample = `
	# dump the whole Airflow database to stdout
	%[1]s mysqldump > airflow.sql

	# flags after -- belong to mysqldump
	%[1]s mysqldump -- --no-data
`
)

type dumpOptions struct {
	genericclioptions.IOStreams
	session   *airflow.Session
	tunnel    *tunnel.Tunnel
	conn      connstring.ConnectionString
	localPort int
	args      []string
}

func newDumpOptions(streams genericclioptions.IOStreams) *dumpOptions {
	return &dumpOptions{
		IOStreams: streams,
	}
}

// NewDumpCmd provides a cobra command wrapping dumpOptions
func NewDumpCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := newDumpOptions(streams)

	cmd := &cobra.Command{
		Use:          "mysqldump [flags] [-- mysqldump-args]",
		Short:        "dump the Airflow database with a local mysqldump",
		Example:      fmt.Sprintf(dumpExample, "composerctl"),
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

	// Leave flags after the first argument to the wrapped mysqldump
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().IntVar(&o.localPort, "local-port", defaultLocalPort, "local port the tunnel listens on")

	return cmd
}

// Complete opens a tunnel to the SQL proxy pod for the local mysqldump
func (c *dumpOptions) Complete(cmd *cobra.Command, args []string) error {
	c.args = args

	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump is not available in PATH: %w", err)
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

	conn, err := airflow.DatabaseConnection(session.RESTConfig, namespace, worker.Name)
	if err != nil {
		return err
	}
	c.conn = conn

	proxy, err := session.Manager.SQLProxyPod(namespace)
	if err != nil {
		return err
	}

	remotePort, err := strconv.Atoi(conn.PortOr(defaultMySQLPort))
	if err != nil {
		return fmt.Errorf("invalid database port %q: %w", conn.Port, err)
	}

	t, err := tunnel.New(session.RESTConfig, namespace, proxy.Name, c.localPort, remotePort, c.IOStreams)
	if err != nil {
		return err
	}
	c.tunnel = t
	session.Defer(t.Close)

	return nil
}

// Validate ensures that all required arguments and flag values are provided
func (c *dumpOptions) Validate() error {
	return nil
}

// Run executes mysqldump against the tunnel, dump output owns stdout
func (c *dumpOptions) Run() error {
	dump := exec.Command("mysqldump", dumpCommand(c.conn, c.localPort, c.args)...)
	dump.Stdin = c.In
	dump.Stdout = c.Out
	dump.Stderr = c.ErrOut
	// Password travels in the environment, not in the argument list.
	dump.Env = append(os.Environ(), "MYSQL_PWD="+c.conn.Password)

	pterm.Info.Printfln("Dumping database %s through %s", c.conn.Database, c.tunnel.Addr())

	if err := dump.Run(); err != nil {
		return fmt.Errorf("mysqldump: %w", err)
	}

	return nil
}

func (c *dumpOptions) close() {
	if c.session != nil {
		c.session.Close()
	}
}

// dumpCommand builds the local mysqldump argv pointed at the tunnel. The
// password is left out, it travels through MYSQL_PWD.
func dumpCommand(conn connstring.ConnectionString, localPort int, extra []string) []string {
	command := []string{
		"--host=127.0.0.1",
		"--port=" + strconv.Itoa(localPort),
		"--user=" + conn.User,
	}
	command = append(command, extra...)
	command = append(command, conn.Database)

	return command
}
