package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

var (
	infoExample = `
	# print every resolved detail of the environment
	%[1]s info

	# machine readable output
	%[1]s info -o json
`
	errUnknownFormat = fmt.Errorf("unknown output format, expected text, json or yaml")
)

const defaultDBPort = "3306"

type options struct {
	genericclioptions.IOStreams
	session  *airflow.Session
	resolved *airflow.ResolvedEnvironment
	output   string
}

func newOptions(streams genericclioptions.IOStreams) *options {
	return &options{
		IOStreams: streams,
	}
}

// NewCmd provides a cobra command wrapping info options
func NewCmd(streams genericclioptions.IOStreams) *cobra.Command {
	o := newOptions(streams)

	cmd := &cobra.Command{
		Use:          "info [flags]",
		Short:        "print the resolved environment details",
		Example:      fmt.Sprintf(infoExample, "composerctl"),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			defer o.close()
			if err := o.Validate(); err != nil {
				return err
			}
			if err := o.Complete(c, args); err != nil {
				if errors.Is(err, airflow.ErrNotConfigured) {
					fmt.Fprint(o.ErrOut, c.UsageString())
				}
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&o.output, "output", "o", "text", "output format, one of text, json or yaml")

	return cmd
}

// Complete resolves every environment detail the verbs can use
func (c *options) Complete(cmd *cobra.Command, args []string) error {
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

	env := session.Environment
	c.resolved = &airflow.ResolvedEnvironment{
		ClusterName:    session.Cluster.Name,
		Namespace:      namespace,
		WorkerPodName:  worker.Name,
		WebUIURL:       env.Config.AirflowURI,
		DagBucket:      env.Config.DagGcsPrefix,
		ImageVersion:   env.Config.SoftwareConfig.ImageVersion,
		DBUser:         conn.User,
		DBPassword:     conn.Password,
		DBHost:         conn.Host,
		DBPort:         conn.PortOr(defaultDBPort),
		DBDatabaseName: conn.Database,
	}

	return nil
}

// Validate ensures the requested output format exists
func (c *options) Validate() error {
	switch c.output {
	case "text", "json", "yaml":
		return nil
	}

	return errUnknownFormat
}

// Run prints the resolved environment in the requested format
func (c *options) Run() error {
	switch c.output {
	case "json":
		data, err := json.MarshalIndent(c.resolved, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Out, string(data))
	case "yaml":
		data, err := yaml.Marshal(c.resolved)
		if err != nil {
			return err
		}
		fmt.Fprint(c.Out, string(data))
	default:
		renderText(c.Out, c.resolved)
	}

	return nil
}

func renderText(w io.Writer, resolved *airflow.ResolvedEnvironment) {
	rows := []struct {
		label string
		value string
	}{
		{"GKE cluster", resolved.ClusterName},
		{"Namespace", resolved.Namespace},
		{"Worker pod", resolved.WorkerPodName},
		{"Web UI", resolved.WebUIURL},
		{"DAG bucket", resolved.DagBucket},
		{"Image version", resolved.ImageVersion},
		{"DB user", resolved.DBUser},
		{"DB password", resolved.DBPassword},
		{"DB host", resolved.DBHost},
		{"DB port", resolved.DBPort},
		{"DB database", resolved.DBDatabaseName},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%-14s %s\n", row.label+":", row.value)
	}
}

func (c *options) close() {
	if c.session != nil {
		c.session.Close()
	}
}
