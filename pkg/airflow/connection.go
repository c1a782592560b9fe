package airflow

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/burmanm/composer-client/pkg/connstring"
	"github.com/burmanm/composer-client/pkg/util"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/rest"
)

// connectionEnvVar is where Airflow keeps the metadata database URI.
const connectionEnvVar = "AIRFLOW__CORE__SQL_ALCHEMY_CONN"

// DatabaseConnection reads the metadata database connection parameters from
// the worker pod's environment.
func DatabaseConnection(restConfig *rest.Config, namespace, podName string) (connstring.ConnectionString, error) {
	var stdout, stderr bytes.Buffer
	streams := genericclioptions.IOStreams{Out: &stdout, ErrOut: &stderr}

	execOptions, err := util.GetExecOptions(streams, restConfig, namespace, WorkerContainer)
	if err != nil {
		return connstring.ConnectionString{}, err
	}
	execOptions.PodName = podName
	execOptions.Quiet = true
	execOptions.Command = []string{"printenv", connectionEnvVar}

	if err := execOptions.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return connstring.ConnectionString{}, fmt.Errorf("reading %s from worker %s: %s: %w", connectionEnvVar, podName, msg, err)
		}
		return connstring.ConnectionString{}, fmt.Errorf("reading %s from worker %s: %w", connectionEnvVar, podName, err)
	}

	conn, err := connstring.Parse(stdout.String())
	if err != nil {
		return connstring.ConnectionString{}, fmt.Errorf("worker %s reported an unusable database connection string: %w", podName, err)
	}

	return conn, nil
}
