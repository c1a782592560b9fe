package mysql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/burmanm/composer-client/pkg/connstring"
	"github.com/burmanm/composer-client/pkg/tunnel"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

var (
	tunnelExample = `
	# forward the Airflow database to localhost:3306
	%[1]s mysqltunnel

	# listen on a different local port
	%[1]s mysqltunnel --local-port 13306
`
)

type tunnelOptions struct {
	genericclioptions.IOStreams
	session   *airflow.Session
	tunnel    *tunnel.Tunnel
	conn      connstring.ConnectionString
	localPort int
}

func newTunnelOptions(streams genericclioptions.IOStreams) *tunnelOptions {
	return &tunnelOptions{
		IOStreams: streams,
	}
}

// NewTunnelCmd provides a cobra command wrapping tunnelOptions
func NewTunnelCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := newTunnelOptions(streams)

	cmd := &cobra.Command{
		Use:          "mysqltunnel [flags]",
		Short:        "keep a local tunnel open to the Airflow database",
		Example:      fmt.Sprintf(tunnelExample, "composerctl"),
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

	cmd.Flags().IntVar(&o.localPort, "local-port", defaultLocalPort, "local port the tunnel listens on")

	return cmd
}

// Complete resolves the SQL proxy pod and opens the tunnel to it
func (c *tunnelOptions) Complete(cmd *cobra.Command, args []string) error {
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

	pterm.Success.Printfln("Forwarding %s to %s/%s port %d", t.Addr(), namespace, proxy.Name, remotePort)

	return nil
}

// Validate ensures that all required arguments and flag values are provided
func (c *tunnelOptions) Validate() error {
	return nil
}

// Run prints the connection details and blocks until the tunnel closes
func (c *tunnelOptions) Run() error {
	fmt.Fprintf(c.Out, "Address:  %s\n", c.tunnel.Addr())
	fmt.Fprintf(c.Out, "User:     %s\n", c.conn.User)
	fmt.Fprintf(c.Out, "Password: %s\n", c.conn.Password)
	fmt.Fprintf(c.Out, "Database: %s\n", c.conn.Database)
	pterm.Info.Println("Press Ctrl+C to close the tunnel")

	return c.tunnel.Wait()
}

func (c *tunnelOptions) close() {
	if c.session != nil {
		c.session.Close()
	}
}
